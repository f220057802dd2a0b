// internal/motorista/repository.go
package motorista

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNaoEncontrado = errors.New("motorista não encontrado")

// Store é o acesso ao cadastro de motoristas usado por este serviço.
type Store interface {
	ListarTodos(ctx context.Context) ([]Motorista, error)
	BuscarPorID(ctx context.Context, id string) (*Motorista, error)
	ListarRecrutados(ctx context.Context, recrutadorID string) ([]Motorista, error)
	DecrementarIsencao(ctx context.Context, id string) error
	Salvar(ctx context.Context, m *Motorista) error
}

// Repository encapsula operações de banco para Motorista.
type Repository struct {
	DB *gorm.DB
}

var _ Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB retorna uma cópia do repo usando um *gorm.DB específico (ex.: tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// ListarTodos ordena por ID para a identificação ser determinística.
func (r *Repository) ListarTodos(ctx context.Context) ([]Motorista, error) {
	var list []Motorista
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *Repository) BuscarPorID(ctx context.Context, id string) (*Motorista, error) {
	var m Motorista
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}
	return &m, nil
}

// ListarRecrutados devolve os indicados diretos de um motorista.
func (r *Repository) ListarRecrutados(ctx context.Context, recrutadorID string) ([]Motorista, error) {
	var list []Motorista
	err := r.DB.WithContext(ctx).
		Where("recrutado_por = ?", recrutadorID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// DecrementarIsencao consome uma semana de isenção; nunca fica negativo.
func (r *Repository) DecrementarIsencao(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Model(&Motorista{}).
		Where("id = ? AND semanas_isencao > 0", id).
		Update("semanas_isencao", gorm.Expr("semanas_isencao - 1")).Error
}

func (r *Repository) Salvar(ctx context.Context, m *Motorista) error {
	return r.DB.WithContext(ctx).Save(m).Error
}
