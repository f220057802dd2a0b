// internal/extrato/estado.go
package extrato

import (
	"context"
	"errors"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/semana"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatusPagamento string

const (
	StatusPendente StatusPagamento = "pending"
	StatusPago     StatusPagamento = "paid"
)

var ErrEstadoNaoEncontrado = errors.New("registro semanal não encontrado")

// EstadoRegistro é a única parte persistida do registro semanal; os valores são sempre recalculados.
type EstadoRegistro struct {
	ID              string          `gorm:"primaryKey;size:80" json:"id"`
	MotoristaID     string          `gorm:"size:64;not null;index" json:"motoristaId"`
	SemanaID        string          `gorm:"size:10;not null;index" json:"semanaId"`
	StatusPagamento StatusPagamento `gorm:"size:20;not null;default:pending" json:"statusPagamento"`
	PagamentoID     *string         `gorm:"size:36" json:"pagamentoId,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (EstadoRegistro) TableName() string { return "registros_semanais" }

func NovoEstado(motoristaID string, s semana.ID) *EstadoRegistro {
	return &EstadoRegistro{
		ID:              IDRegistro(motoristaID, s),
		MotoristaID:     motoristaID,
		SemanaID:        string(s),
		StatusPagamento: StatusPendente,
	}
}

type EstadoStore interface {
	BuscarEstado(ctx context.Context, id string) (*EstadoRegistro, error)
	// SalvarEstado faz upsert pela chave driverId_weekId.
	SalvarEstado(ctx context.Context, e *EstadoRegistro) error
	ListarEstados(ctx context.Context) ([]EstadoRegistro, error)
}

type Repository struct {
	DB *gorm.DB
}

var _ EstadoStore = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// BuscarEstado trava a linha até o fim da transação, se houver uma.
func (r *Repository) BuscarEstado(ctx context.Context, id string) (*EstadoRegistro, error) {
	var e EstadoRegistro
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstadoNaoEncontrado
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repository) SalvarEstado(ctx context.Context, e *EstadoRegistro) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status_pagamento", "pagamento_id", "updated_at"}),
		}).
		Create(e).Error
}

func (r *Repository) ListarEstados(ctx context.Context) ([]EstadoRegistro, error) {
	var list []EstadoRegistro
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&EstadoRegistro{})
}
