// internal/pagamento/repository.go
package pagamento

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/KromaEnergia/api-repasses/internal/semana"
	"gorm.io/gorm"
)

var (
	// ErrJaPago: já existe pagamento não cancelado para o motorista na semana.
	ErrJaPago        = errors.New("motorista já pago nesta semana")
	ErrNaoEncontrado = errors.New("pagamento não encontrado")
	ErrCancelado     = errors.New("pagamento cancelado")
	// ErrProjecaoDesatualizada: o ledger mudou entre o cálculo e a gravação; repetir o pagamento.
	ErrProjecaoDesatualizada = errors.New("dados mudaram durante o pagamento")
)

type Store interface {
	// Criar devolve ErrJaPago se houver outro pagamento ativo para o registro.
	Criar(ctx context.Context, p *Pagamento) error
	BuscarPorID(ctx context.Context, id string) (*Pagamento, error)
	BuscarAtivoPorRegistro(ctx context.Context, registroID string) (*Pagamento, error)
	ListarAtivos(ctx context.Context) ([]Pagamento, error)
	// ListarAtivosPorFinanciamento são os pagamentos ativos que pagaram parcela do financiamento.
	ListarAtivosPorFinanciamento(ctx context.Context, financiamentoID string) ([]Pagamento, error)
	ListarPorSemana(ctx context.Context, s semana.ID) ([]Pagamento, error)
	Salvar(ctx context.Context, p *Pagamento) error
}

type Repository struct {
	DB *gorm.DB
}

var _ Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

func (r *Repository) Criar(ctx context.Context, p *Pagamento) error {
	err := r.DB.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrJaPago
	}
	return err
}

func (r *Repository) BuscarPorID(ctx context.Context, id string) (*Pagamento, error) {
	var p Pagamento
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) BuscarAtivoPorRegistro(ctx context.Context, registroID string) (*Pagamento, error) {
	var p Pagamento
	err := r.DB.WithContext(ctx).
		Where("registro_id = ? AND cancelado_em IS NULL", registroID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListarAtivos(ctx context.Context) ([]Pagamento, error) {
	var list []Pagamento
	err := r.DB.WithContext(ctx).
		Where("cancelado_em IS NULL").
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) ListarAtivosPorFinanciamento(ctx context.Context, financiamentoID string) ([]Pagamento, error) {
	// @> casa só por id e parcela, ignorando os demais campos da aplicação
	filtro, err := json.Marshal([]map[string]interface{}{{"financingId": financiamentoID, "installmentPaid": true}})
	if err != nil {
		return nil, err
	}
	var list []Pagamento
	err = r.DB.WithContext(ctx).
		Where("cancelado_em IS NULL AND financiamentos_processados @> ?::jsonb", string(filtro)).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) ListarPorSemana(ctx context.Context, s semana.ID) ([]Pagamento, error) {
	var list []Pagamento
	err := r.DB.WithContext(ctx).
		Where("semana_id = ?", string(s)).
		Order("motorista_nome ASC, created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) Salvar(ctx context.Context, p *Pagamento) error {
	return r.DB.WithContext(ctx).Save(p).Error
}
