// internal/financiamento/repository.go
package financiamento

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store interface {
	Criar(ctx context.Context, f *Financiamento) error
	// BuscarPorID trava a linha quando executado dentro de uma transação.
	BuscarPorID(ctx context.Context, id string) (*Financiamento, error)
	ListarPorMotorista(ctx context.Context, motoristaID string) ([]Financiamento, error)
	ListarAtivosPorMotorista(ctx context.Context, motoristaID string) ([]Financiamento, error)
	// ListarPagina percorre todos os financiamentos por ID, em páginas.
	ListarPagina(ctx context.Context, aposID string, limite int) ([]Financiamento, error)
	Salvar(ctx context.Context, f *Financiamento) error
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

func (r *Repository) Criar(ctx context.Context, f *Financiamento) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *Repository) BuscarPorID(ctx context.Context, id string) (*Financiamento, error) {
	var f Financiamento
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&f, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repository) ListarPorMotorista(ctx context.Context, motoristaID string) ([]Financiamento, error) {
	var list []Financiamento
	err := r.DB.WithContext(ctx).
		Where("motorista_id = ?", motoristaID).
		Order("data_inicio ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) ListarAtivosPorMotorista(ctx context.Context, motoristaID string) ([]Financiamento, error) {
	var list []Financiamento
	err := r.DB.WithContext(ctx).
		Where("motorista_id = ? AND status = ?", motoristaID, StatusAtivo).
		Order("data_inicio ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) ListarPagina(ctx context.Context, aposID string, limite int) ([]Financiamento, error) {
	var list []Financiamento
	err := r.DB.WithContext(ctx).
		Where("id > ?", aposID).
		Order("id ASC").
		Limit(limite).
		Find(&list).Error
	return list, err
}

func (r *Repository) Salvar(ctx context.Context, f *Financiamento) error {
	return r.DB.WithContext(ctx).Save(f).Error
}
