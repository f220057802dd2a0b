// internal/reconciliacao/reconciliador.go
package reconciliacao

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/extrato"
	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/KromaEnergia/api-repasses/internal/logging"
	"github.com/KromaEnergia/api-repasses/internal/lote"
	"github.com/KromaEnergia/api-repasses/internal/pagamento"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"go.uber.org/zap"
)

const (
	EntidadeFinanciamento = "financiamento"
	EntidadeRegistro      = "registro-semanal"

	tamanhoPaginaPadrao = 200
)

// Divergencia é um estado derivado que não bate com o ledger de pagamentos.
type Divergencia struct {
	Entidade string `json:"entidade"`
	ID       string `json:"id"`
	Antes    string `json:"antes"`
	Depois   string `json:"depois"`
	Reparada bool   `json:"reparada"`
	Motivo   string `json:"motivo,omitempty"`
}

func (d Divergencia) Error() string {
	return fmt.Sprintf("divergência em %s %s: %s -> %s", d.Entidade, d.ID, d.Antes, d.Depois)
}

type Relatorio struct {
	Inicio                    time.Time      `json:"inicio"`
	Fim                       time.Time      `json:"fim"`
	FinanciamentosVerificados int            `json:"financiamentosVerificados"`
	RegistrosVerificados      int            `json:"registrosVerificados"`
	Escritas                  int            `json:"escritas"`
	Divergencias              []Divergencia  `json:"divergencias"`
	Irreparaveis              []Divergencia  `json:"irreparaveis"`
	Lote                      lote.Resultado `json:"lote"`
}

// Reconciliador recalcula financiamentos e status a partir do ledger.
// Só grava o que difere, então uma segunda execução seguida não escreve nada.
// Cada linha é relida e corrigida numa transação própria, com o ledger lido lá dentro.
type Reconciliador struct {
	Pagamentos     pagamento.Store
	Financiamentos financiamento.Store
	Estados        extrato.EstadoStore
	Tx             pagamento.Transacionador
	Log            *zap.Logger
	Agora          func() time.Time
	TamanhoPagina  int
}

func NewReconciliador(pag pagamento.Store, fin financiamento.Store, est extrato.EstadoStore, tx pagamento.Transacionador, log *zap.Logger) *Reconciliador {
	return &Reconciliador{
		Pagamentos:     pag,
		Financiamentos: fin,
		Estados:        est,
		Tx:             tx,
		Log:            logging.OuNop(log),
		Agora:          time.Now,
		TamanhoPagina:  tamanhoPaginaPadrao,
	}
}

// Executar varre o ledger. Cancelado, devolve o relatório do que já foi feito.
func (r *Reconciliador) Executar(ctx context.Context) (Relatorio, error) {
	rel := Relatorio{Inicio: r.Agora().UTC(), Divergencias: []Divergencia{}, Irreparaveis: []Divergencia{}}

	// só enumera registros pagos que ainda não têm linha de status
	ativos, err := r.Pagamentos.ListarAtivos(ctx)
	if err != nil {
		return rel, fmt.Errorf("erro ao ler ledger de pagamentos: %w", err)
	}

	if err := r.financiamentos(ctx, &rel); err != nil {
		rel.Fim = r.Agora().UTC()
		return rel, err
	}
	if err := r.estados(ctx, ativos, &rel); err != nil {
		rel.Fim = r.Agora().UTC()
		return rel, err
	}

	rel.Fim = r.Agora().UTC()
	r.Log.Info("reconciliação concluída",
		zap.Int("financiamentos", rel.FinanciamentosVerificados),
		zap.Int("registros", rel.RegistrosVerificados),
		zap.Int("escritas", rel.Escritas),
		zap.Int("irreparaveis", len(rel.Irreparaveis)),
		zap.Int("falhas", len(rel.Lote.Falhas)))
	return rel, rel.Lote.Err()
}

func (r *Reconciliador) financiamentos(ctx context.Context, rel *Relatorio) error {
	tamanho := r.TamanhoPagina
	if tamanho <= 0 {
		tamanho = tamanhoPaginaPadrao
	}
	apos := ""
	for {
		pagina, err := r.Financiamentos.ListarPagina(ctx, apos, tamanho)
		if err != nil {
			return fmt.Errorf("erro ao listar financiamentos: %w", err)
		}
		for _, f := range pagina {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel.FinanciamentosVerificados++
			r.financiamento(ctx, f.ID, rel)
		}
		if len(pagina) < tamanho {
			return nil
		}
		apos = pagina[len(pagina)-1].ID
	}
}

func (r *Reconciliador) financiamento(ctx context.Context, id string, rel *Relatorio) {
	var reparada, irreparavel *Divergencia
	err := r.Tx.Transacao(ctx, func(repos pagamento.Repositorios) error {
		atual, err := repos.Financiamentos.BuscarPorID(ctx, id)
		if err != nil {
			return err
		}
		pags, err := repos.Pagamentos.ListarAtivosPorFinanciamento(ctx, id)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(pags))
		for _, p := range pags {
			ids = append(ids, p.ID)
		}

		depois := atual.Copia()
		err = depois.Reconstruir(ids, r.Agora())
		d := Divergencia{
			Entidade: EntidadeFinanciamento,
			ID:       id,
			Antes:    descreverFinanciamento(*atual),
			Depois:   descreverFinanciamento(depois),
		}
		if errors.Is(err, financiamento.ErrReaberturaNegada) {
			d.Motivo = err.Error()
			irreparavel = &d
			return nil
		}
		if err != nil {
			return err
		}
		if financiamento.MesmoEstado(*atual, depois) {
			return nil
		}
		if err := repos.Financiamentos.Salvar(ctx, &depois); err != nil {
			return err
		}
		d.Reparada = true
		reparada = &d
		return nil
	})
	if err != nil {
		rel.Lote.Falhou(EntidadeFinanciamento+" "+id, err)
		r.Log.Error("erro ao reconciliar financiamento", zap.String("financiamento", id), zap.Error(err))
		return
	}
	rel.Lote.Sucesso()
	switch {
	case irreparavel != nil:
		rel.Irreparaveis = append(rel.Irreparaveis, *irreparavel)
		r.Log.Warn("divergência irreparável no ledger", zap.String("financiamento", id), zap.String("antes", irreparavel.Antes), zap.String("ledger", irreparavel.Depois))
	case reparada != nil:
		r.registrarReparo(*reparada, rel)
	}
}

func (r *Reconciliador) estados(ctx context.Context, ativos []pagamento.Pagamento, rel *Relatorio) error {
	estados, err := r.Estados.ListarEstados(ctx)
	if err != nil {
		return fmt.Errorf("erro ao listar registros semanais: %w", err)
	}
	ids := make([]string, 0, len(estados)+len(ativos))
	vistos := map[string]bool{}
	for _, e := range estados {
		vistos[e.ID] = true
		ids = append(ids, e.ID)
	}
	// pagamentos sem linha de status
	for _, p := range ativos {
		if !vistos[p.RegistroID] {
			vistos[p.RegistroID] = true
			ids = append(ids, p.RegistroID)
		}
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel.RegistrosVerificados++
		r.estado(ctx, id, rel)
	}
	return nil
}

func (r *Reconciliador) estado(ctx context.Context, id string, rel *Relatorio) {
	var reparada *Divergencia
	err := r.Tx.Transacao(ctx, func(repos pagamento.Repositorios) error {
		atual := extrato.EstadoRegistro{ID: id}
		existe := true
		e, err := repos.Estados.BuscarEstado(ctx, id)
		switch {
		case err == nil:
			atual = *e
		case errors.Is(err, extrato.ErrEstadoNaoEncontrado):
			existe = false
		default:
			return err
		}

		p, err := repos.Pagamentos.BuscarAtivoPorRegistro(ctx, id)
		if err != nil && !errors.Is(err, pagamento.ErrNaoEncontrado) {
			return err
		}
		pago := err == nil

		esperado := atual
		switch {
		case pago:
			if !existe {
				esperado = *extrato.NovoEstado(p.MotoristaID, semana.ID(p.SemanaID))
			}
			pid := p.ID
			esperado.StatusPagamento = extrato.StatusPago
			esperado.PagamentoID = &pid
		case !existe:
			// o pagamento listado foi cancelado no meio da varredura
			return nil
		default:
			esperado.StatusPagamento = extrato.StatusPendente
			esperado.PagamentoID = nil
		}
		if mesmoEstadoRegistro(atual, esperado) {
			return nil
		}
		if err := repos.Estados.SalvarEstado(ctx, &esperado); err != nil {
			return err
		}
		reparada = &Divergencia{
			Entidade: EntidadeRegistro,
			ID:       id,
			Antes:    descreverEstado(atual),
			Depois:   descreverEstado(esperado),
			Reparada: true,
		}
		return nil
	})
	if err != nil {
		rel.Lote.Falhou(EntidadeRegistro+" "+id, err)
		r.Log.Error("erro ao reparar registro semanal", zap.String("registro", id), zap.Error(err))
		return
	}
	rel.Lote.Sucesso()
	if reparada != nil {
		r.registrarReparo(*reparada, rel)
	}
}

func (r *Reconciliador) registrarReparo(d Divergencia, rel *Relatorio) {
	rel.Escritas++
	rel.Divergencias = append(rel.Divergencias, d)
	r.Log.Warn("divergência reparada", zap.String("entidade", d.Entidade), zap.String("id", d.ID), zap.String("antes", d.Antes), zap.String("depois", d.Depois))
}

func mesmoEstadoRegistro(a, b extrato.EstadoRegistro) bool {
	if a.StatusPagamento != b.StatusPagamento {
		return false
	}
	if a.PagamentoID == nil || b.PagamentoID == nil {
		return a.PagamentoID == nil && b.PagamentoID == nil
	}
	return *a.PagamentoID == *b.PagamentoID
}

func descreverFinanciamento(f financiamento.Financiamento) string {
	restantes := "-"
	if f.SemanasRestantes != nil {
		restantes = strconv.Itoa(*f.SemanasRestantes)
	}
	return fmt.Sprintf("status=%s restantes=%s processados=%d", f.Status, restantes, len(f.RegistrosProcessados))
}

func descreverEstado(e extrato.EstadoRegistro) string {
	status := string(e.StatusPagamento)
	if status == "" {
		status = "ausente"
	}
	if e.PagamentoID != nil {
		return fmt.Sprintf("status=%s pagamento=%s", status, *e.PagamentoID)
	}
	return "status=" + status
}
