// internal/financiamento/model.go
package financiamento

import (
	"errors"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Tipo string

const (
	TipoEmprestimo Tipo = "loan"
	TipoDesconto   Tipo = "discount"
)

type Status string

const (
	StatusAtivo     Status = "active"
	StatusConcluido Status = "completed"
)

var (
	ErrNaoEncontrado = errors.New("financiamento não encontrado")
	// ErrReaberturaNegada: concluído é terminal, mesmo que o ledger indique parcelas restantes.
	ErrReaberturaNegada = errors.New("financiamento concluído não pode ser reaberto")
	ErrSemPrazo         = errors.New("só financiamentos sem prazo podem ser concluídos manualmente")
)

// Financiamento é um empréstimo ou desconto pago em parcelas semanais e/ou juros.
//
// Com Semanas definido: SemanasRestantes == max(0, Semanas - len(RegistrosProcessados))
// e Status == concluído se e somente se SemanasRestantes == 0.
type Financiamento struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	MotoristaID  string          `gorm:"size:64;not null;index" json:"motoristaId"`
	Tipo         Tipo            `gorm:"size:20;not null" json:"tipo"`
	Valor        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"valor"`
	Semanas      *int            `json:"semanas"`
	JurosSemanal decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0" json:"jurosSemanal"`
	DataInicio   time.Time       `gorm:"not null" json:"dataInicio"`
	DataFim      *time.Time      `json:"dataFim,omitempty"`
	Status       Status          `gorm:"size:20;not null;index" json:"status"`

	SemanasRestantes *int `json:"semanasRestantes"`
	// RegistrosProcessados guarda os IDs de pagamento que já descontaram este financiamento.
	RegistrosProcessados []string `gorm:"serializer:json;type:jsonb;not null" json:"registrosProcessados"`

	Descricao string    `gorm:"size:255" json:"descricao,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Financiamento) TableName() string { return "financiamentos" }

func (f Financiamento) Ativo() bool { return f.Status == StatusAtivo }

// ParcelaSemanal é o principal por semana; zero para financiamento sem prazo.
func (f Financiamento) ParcelaSemanal() decimal.Decimal {
	if f.Semanas == nil || *f.Semanas <= 0 {
		return decimal.Zero
	}
	return f.Valor.Div(decimal.NewFromInt(int64(*f.Semanas)))
}

// Elegivel indica se o financiamento entra no cálculo da semana.
func (f Financiamento) Elegivel(s semana.ID, cfg config.Financiamento) bool {
	if !f.Ativo() {
		return false
	}
	if !cfg.CalculoDinamico {
		return true
	}
	limite := s.Fim()
	if cfg.PoliticaElegibilidade == config.PoliticaInicioSemana {
		limite = s.Inicio()
	}
	return !f.DataInicio.After(limite)
}

func (f Financiamento) processado(pagamentoID string) bool {
	for _, id := range f.RegistrosProcessados {
		if id == pagamentoID {
			return true
		}
	}
	return false
}

// Aplicacao é o efeito de um pagamento sobre um financiamento, gravado no ledger.
type Aplicacao struct {
	FinanciamentoID   string `json:"financingId"`
	ParcelaPaga       bool   `json:"installmentPaid"`
	ParcelasRestantes *int   `json:"remainingInstallments"`
	Concluido         bool   `json:"completed"`
}

func (f Financiamento) aplicacao(paga bool) Aplicacao {
	return Aplicacao{
		FinanciamentoID:   f.ID,
		ParcelaPaga:       paga,
		ParcelasRestantes: copiarInt(f.SemanasRestantes),
		Concluido:         f.Status == StatusConcluido,
	}
}

// AplicarPagamento desconta uma parcela pelo pagamento informado.
// Não faz nada (false) se o financiamento estiver concluído ou se o pagamento já foi aplicado.
func (f *Financiamento) AplicarPagamento(pagamentoID string, agora time.Time) (Aplicacao, bool) {
	if f.Status == StatusConcluido || f.processado(pagamentoID) {
		return f.aplicacao(false), false
	}
	f.RegistrosProcessados = append(f.RegistrosProcessados, pagamentoID)
	f.recalcular(agora)
	return f.aplicacao(true), true
}

// ReverterPagamento retira um pagamento cancelado e devolve a parcela.
// Um financiamento concluído por esse pagamento volta a ativo; false se o pagamento não constava.
func (f *Financiamento) ReverterPagamento(pagamentoID string) bool {
	if !f.processado(pagamentoID) {
		return false
	}
	restantes := make([]string, 0, len(f.RegistrosProcessados))
	for _, id := range f.RegistrosProcessados {
		if id != pagamentoID {
			restantes = append(restantes, id)
		}
	}
	f.RegistrosProcessados = restantes
	if f.Semanas == nil {
		return true
	}
	r := restantesPara(*f.Semanas, len(f.RegistrosProcessados))
	f.SemanasRestantes = &r
	if r > 0 && f.Status == StatusConcluido {
		f.Status = StatusAtivo
		f.DataFim = nil
	}
	return true
}

// Reconstruir deriva o estado a partir do conjunto de pagamentos do ledger.
func (f *Financiamento) Reconstruir(pagamentoIDs []string, agora time.Time) error {
	if !mesmoConjunto(f.RegistrosProcessados, pagamentoIDs) {
		f.RegistrosProcessados = append([]string{}, pagamentoIDs...)
	}
	if f.Semanas == nil {
		f.SemanasRestantes = nil
		return nil
	}
	restantes := restantesPara(*f.Semanas, len(f.RegistrosProcessados))
	if f.Status == StatusConcluido && restantes > 0 {
		return ErrReaberturaNegada
	}
	f.recalcular(agora)
	return nil
}

func (f *Financiamento) recalcular(agora time.Time) {
	if f.Semanas == nil {
		return
	}
	restantes := restantesPara(*f.Semanas, len(f.RegistrosProcessados))
	f.SemanasRestantes = &restantes
	if restantes == 0 && f.Status != StatusConcluido {
		f.Status = StatusConcluido
	}
	if f.Status == StatusConcluido && f.DataFim == nil {
		fim := agora.UTC()
		f.DataFim = &fim
	}
}

// Concluir encerra manualmente um financiamento sem prazo.
func (f *Financiamento) Concluir(agora time.Time) error {
	if f.Semanas != nil {
		return ErrSemPrazo
	}
	if f.Status == StatusConcluido {
		return nil
	}
	f.Status = StatusConcluido
	fim := agora.UTC()
	f.DataFim = &fim
	return nil
}

// Copia devolve um valor independente, sem ponteiros ou slices compartilhados.
func (f Financiamento) Copia() Financiamento {
	c := f
	c.Semanas = copiarInt(f.Semanas)
	c.SemanasRestantes = copiarInt(f.SemanasRestantes)
	c.RegistrosProcessados = append([]string{}, f.RegistrosProcessados...)
	if f.DataFim != nil {
		fim := *f.DataFim
		c.DataFim = &fim
	}
	return c
}

// MesmoEstado compara os campos que o ledger controla.
func MesmoEstado(a, b Financiamento) bool {
	return a.Status == b.Status &&
		igualInt(a.SemanasRestantes, b.SemanasRestantes) &&
		(a.DataFim == nil) == (b.DataFim == nil) &&
		mesmoConjunto(a.RegistrosProcessados, b.RegistrosProcessados)
}

func restantesPara(semanas, processados int) int {
	if r := semanas - processados; r > 0 {
		return r
	}
	return 0
}

func mesmoConjunto(a, b []string) bool {
	ca := map[string]struct{}{}
	for _, id := range a {
		ca[id] = struct{}{}
	}
	cb := map[string]struct{}{}
	for _, id := range b {
		cb[id] = struct{}{}
	}
	if len(ca) != len(cb) {
		return false
	}
	for id := range ca {
		if _, ok := cb[id]; !ok {
			return false
		}
	}
	return true
}

func igualInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copiarInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Financiamento{})
}
