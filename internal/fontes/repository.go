// internal/fontes/repository.go
package fontes

import (
	"context"
	"errors"

	"github.com/KromaEnergia/api-repasses/internal/semana"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNaoEncontrada = errors.New("semana não aberta")

type Store interface {
	// Abrir cria a semana se ainda não existir; true se criou.
	Abrir(ctx context.Context, f *FontesSemana) (bool, error)
	Buscar(ctx context.Context, s semana.ID) (*FontesSemana, error)
	Salvar(ctx context.Context, f *FontesSemana) error
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

func (r *Repository) Abrir(ctx context.Context, f *FontesSemana) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "semana_id"}}, DoNothing: true}).
		Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) Buscar(ctx context.Context, s semana.ID) (*FontesSemana, error) {
	var f FontesSemana
	if err := r.DB.WithContext(ctx).First(&f, "semana_id = ?", string(s)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrada
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repository) Salvar(ctx context.Context, f *FontesSemana) error {
	return r.DB.WithContext(ctx).Save(f).Error
}
