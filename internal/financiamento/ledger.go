// internal/financiamento/ledger.go
package financiamento

import (
	"context"
	"fmt"
	"time"
)

// Ledger aplica pagamentos aos financiamentos persistidos.
// Só o processador de pagamentos chama AplicarPagamento; a projeção nunca avança o ledger.
type Ledger struct {
	Store Store
	Agora func() time.Time
}

func NewLedger(s Store) *Ledger {
	return &Ledger{Store: s, Agora: time.Now}
}

// AplicarPagamento carrega, aplica e grava. Sem escrita quando já aplicado.
func (l *Ledger) AplicarPagamento(ctx context.Context, financiamentoID, pagamentoID string) (Aplicacao, bool, error) {
	f, err := l.Store.BuscarPorID(ctx, financiamentoID)
	if err != nil {
		return Aplicacao{}, false, err
	}
	ap, mudou := f.AplicarPagamento(pagamentoID, l.Agora())
	if !mudou {
		return ap, false, nil
	}
	if err := l.Store.Salvar(ctx, f); err != nil {
		return Aplicacao{}, false, fmt.Errorf("erro ao gravar financiamento %s: %w", financiamentoID, err)
	}
	return ap, true, nil
}

// ReverterPagamento desfaz a aplicação de um pagamento cancelado. Sem escrita se ele não constava.
func (l *Ledger) ReverterPagamento(ctx context.Context, financiamentoID, pagamentoID string) (bool, error) {
	f, err := l.Store.BuscarPorID(ctx, financiamentoID)
	if err != nil {
		return false, err
	}
	if !f.ReverterPagamento(pagamentoID) {
		return false, nil
	}
	if err := l.Store.Salvar(ctx, f); err != nil {
		return false, fmt.Errorf("erro ao gravar financiamento %s: %w", financiamentoID, err)
	}
	return true, nil
}
