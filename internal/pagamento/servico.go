// internal/pagamento/servico.go
package pagamento

import (
	"context"
	"errors"

	"github.com/KromaEnergia/api-repasses/internal/comissao"
	"github.com/KromaEnergia/api-repasses/internal/extrato"
	"github.com/KromaEnergia/api-repasses/internal/semana"
)

// Visao é o que o painel mostra para um motorista na semana.
type Visao struct {
	Registro        extrato.Registro        `json:"registro"`
	StatusPagamento extrato.StatusPagamento `json:"statusPagamento"`
	PagamentoID     *string                 `json:"pagamentoId,omitempty"`
	// Congelado: valores vêm do pagamento e não são mais recalculados.
	Congelado bool                `json:"congelado"`
	Comissao  *comissao.Resultado `json:"comissao,omitempty"`
}

// Servico expõe o extrato semanal e a auditoria de pagamentos.
type Servico struct {
	Projetor   *Projetor
	Pagamentos Store
}

func NewServico(proj *Projetor, pagamentos Store) *Servico {
	return &Servico{Projetor: proj, Pagamentos: pagamentos}
}

// Extrato recalcula enquanto não houver pagamento; depois, devolve o cálculo gravado nele.
func (s *Servico) Extrato(ctx context.Context, motoristaID string, sem semana.ID) (Visao, error) {
	pag, err := s.Pagamentos.BuscarAtivoPorRegistro(ctx, extrato.IDRegistro(motoristaID, sem))
	switch {
	case err == nil:
		id := pag.ID
		return Visao{Registro: pag.Calculo, StatusPagamento: extrato.StatusPago, PagamentoID: &id, Congelado: true}, nil
	case !errors.Is(err, ErrNaoEncontrado):
		return Visao{}, err
	}

	proj, err := s.Projetor.Projetar(ctx, motoristaID, sem)
	if err != nil {
		return Visao{}, err
	}
	com := proj.Comissao
	return Visao{Registro: proj.Registro, StatusPagamento: extrato.StatusPendente, Comissao: &com}, nil
}

// Reproducao compara o cálculo gravado com o refeito a partir do snapshot.
type Reproducao struct {
	Pagamento   *Pagamento       `json:"pagamento"`
	Recalculado extrato.Registro `json:"recalculado"`
	Confere     bool             `json:"confere"`
}

func (s *Servico) Reproduzir(ctx context.Context, pagamentoID string) (Reproducao, error) {
	pag, err := s.Pagamentos.BuscarPorID(ctx, pagamentoID)
	if err != nil {
		return Reproducao{}, err
	}
	r := extrato.Calcular(pag.Snapshot)
	return Reproducao{
		Pagamento:   pag,
		Recalculado: r,
		Confere:     r.Repasse.Equal(pag.Calculo.Repasse) && r.DespesasAdm.Equal(pag.Calculo.DespesasAdm),
	}, nil
}
