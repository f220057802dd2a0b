// internal/pagamento/processador.go
package pagamento

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/extrato"
	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/KromaEnergia/api-repasses/internal/logging"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Processador executa o pagamento de um motorista numa semana como uma única transação.
type Processador struct {
	Projetor   *Projetor
	Pagamentos Store
	Tx         Transacionador
	Cfg        config.Financeiro
	Log        *zap.Logger
	Agora      func() time.Time
	NovoID     func() string
}

func NewProcessador(proj *Projetor, pagamentos Store, tx Transacionador, cfg config.Financeiro, log *zap.Logger) *Processador {
	return &Processador{
		Projetor:   proj,
		Pagamentos: pagamentos,
		Tx:         tx,
		Cfg:        cfg,
		Log:        logging.OuNop(log),
		Agora:      time.Now,
		NovoID:     uuid.NewString,
	}
}

// Pagar recalcula o extrato e, na mesma transação, avança os financiamentos,
// marca os bônus, consome a isenção, grava o pagamento e marca o registro como pago.
func (p *Processador) Pagar(ctx context.Context, motoristaID string, s semana.ID, comp *Comprovante) (*Pagamento, error) {
	registroID := extrato.IDRegistro(motoristaID, s)
	if err := p.garantirNaoPago(ctx, p.Pagamentos, registroID); err != nil {
		return nil, err
	}

	proj, err := p.Projetor.Projetar(ctx, motoristaID, s)
	if err != nil {
		return nil, err
	}

	agora := p.Agora().UTC()
	pag := novoPagamento(p.NovoID(), proj, agora)
	if !comp.vazio() {
		pag.ComprovanteURL = comp.URL
		pag.ComprovanteNota = comp.Nota
		pag.ComprovanteEm = &agora
	}

	err = p.Tx.Transacao(ctx, func(repos Repositorios) error {
		if err := p.garantirNaoPago(ctx, repos.Pagamentos, registroID); err != nil {
			return err
		}

		cobrados := proj.cobrados()
		ledger := &financiamento.Ledger{Store: repos.Financiamentos, Agora: func() time.Time { return agora }}
		for _, fid := range proj.aDescontar(p.Cfg.Financiamento) {
			ap, _, err := ledger.AplicarPagamento(ctx, fid, pag.ID)
			if err != nil {
				return fmt.Errorf("financiamento %s: %w", fid, err)
			}
			if _, ok := cobrados[fid]; ok && !ap.ParcelaPaga {
				return fmt.Errorf("%w: financiamento %s já não aceita parcela", ErrProjecaoDesatualizada, fid)
			}
			pag.FinanciamentosProcessados = append(pag.FinanciamentosProcessados, ap)
		}

		if err := repos.Comissoes.MarcarBonusPagos(ctx, proj.Comissao.BonusIDs, pag.ID); err != nil {
			return fmt.Errorf("erro ao marcar bônus: %w", err)
		}
		pag.BonusMarcados = append(pag.BonusMarcados, proj.Comissao.BonusIDs...)

		if proj.Entrada.Isento {
			if err := repos.Motoristas.DecrementarIsencao(ctx, motoristaID); err != nil {
				return fmt.Errorf("erro ao consumir isenção: %w", err)
			}
		}

		if err := repos.Pagamentos.Criar(ctx, pag); err != nil {
			return err
		}

		estado := extrato.NovoEstado(motoristaID, s)
		estado.StatusPagamento = extrato.StatusPago
		estado.PagamentoID = &pag.ID
		return repos.Estados.SalvarEstado(ctx, estado)
	})
	if err != nil {
		if errors.Is(err, ErrProjecaoDesatualizada) {
			p.Log.Warn("pagamento desfeito por concorrência",
				zap.String("motorista", motoristaID),
				zap.String("semana", string(s)),
				zap.Error(err))
		} else if !errors.Is(err, ErrJaPago) {
			p.Log.Error("pagamento desfeito",
				zap.String("motorista", motoristaID),
				zap.String("semana", string(s)),
				zap.Error(err))
		}
		return nil, err
	}

	p.Log.Info("pagamento registrado",
		zap.String("pagamento", pag.ID),
		zap.String("motorista", motoristaID),
		zap.String("semana", string(s)),
		zap.String("total", pag.ValorTotal.StringFixed(2)),
		zap.Int("financiamentos", len(pag.FinanciamentosProcessados)))
	return pag, nil
}

func (p *Processador) garantirNaoPago(ctx context.Context, store Store, registroID string) error {
	_, err := store.BuscarAtivoPorRegistro(ctx, registroID)
	switch {
	case err == nil:
		return ErrJaPago
	case errors.Is(err, ErrNaoEncontrado):
		return nil
	default:
		return err
	}
}

func novoPagamento(id string, proj Projecao, agora time.Time) *Pagamento {
	r := proj.Registro
	return &Pagamento{
		ID:                        id,
		RegistroID:                r.ID,
		MotoristaID:               r.MotoristaID,
		MotoristaNome:             r.MotoristaNome,
		SemanaID:                  string(r.SemanaID),
		ValorBase:                 r.GanhosMenosIVA.Sub(r.DespesasAdm),
		ValorBonus:                r.Comissao,
		ValorDesconto:             r.Combustivel.Add(r.Portagens).Add(r.Aluguel).Add(r.CustoFinanciamento),
		ValorTotal:                r.Repasse,
		TaxaAdmValor:              r.DespesasAdm,
		IvaValor:                  r.IvaValor,
		ComissaoPaga:              r.Comissao,
		Snapshot:                  proj.Entrada,
		Calculo:                   r,
		FinanciamentosProcessados: []financiamento.Aplicacao{},
		BonusMarcados:             []string{},
		CreatedAt:                 agora,
	}
}

// AnexarComprovante altera só os campos de comprovante.
func (p *Processador) AnexarComprovante(ctx context.Context, id string, comp Comprovante) (*Pagamento, error) {
	pag, err := p.Pagamentos.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pag.Ativo() {
		return nil, ErrCancelado
	}
	agora := p.Agora().UTC()
	pag.ComprovanteURL = comp.URL
	pag.ComprovanteNota = comp.Nota
	pag.ComprovanteEm = &agora
	if err := p.Pagamentos.Salvar(ctx, pag); err != nil {
		return nil, err
	}
	return pag, nil
}

// Cancelar marca o pagamento como cancelado, devolve as parcelas que ele pagou
// e volta o registro a pendente, tudo na mesma transação.
func (p *Processador) Cancelar(ctx context.Context, id, motivo string) (*Pagamento, error) {
	var pag *Pagamento
	err := p.Tx.Transacao(ctx, func(repos Repositorios) error {
		var err error
		pag, err = repos.Pagamentos.BuscarPorID(ctx, id)
		if err != nil {
			return err
		}
		if !pag.Ativo() {
			return ErrCancelado
		}
		agora := p.Agora().UTC()
		pag.CanceladoEm = &agora
		pag.MotivoCancelamento = motivo
		if err := repos.Pagamentos.Salvar(ctx, pag); err != nil {
			return err
		}
		ledger := &financiamento.Ledger{Store: repos.Financiamentos, Agora: func() time.Time { return agora }}
		for _, ap := range pag.FinanciamentosProcessados {
			if !ap.ParcelaPaga {
				continue
			}
			if _, err := ledger.ReverterPagamento(ctx, ap.FinanciamentoID, pag.ID); err != nil {
				return fmt.Errorf("financiamento %s: %w", ap.FinanciamentoID, err)
			}
		}
		if err := repos.Comissoes.ReverterBonus(ctx, pag.ID); err != nil {
			return err
		}
		estado := extrato.NovoEstado(pag.MotoristaID, semana.ID(pag.SemanaID))
		return repos.Estados.SalvarEstado(ctx, estado)
	})
	if err != nil {
		return nil, err
	}
	p.Log.Warn("pagamento cancelado",
		zap.String("pagamento", pag.ID),
		zap.String("motorista", pag.MotoristaID),
		zap.String("semana", pag.SemanaID),
		zap.String("motivo", motivo))
	return pag, nil
}
