// internal/plataforma/repository.go
package plataforma

import (
	"context"
	"errors"

	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNaoEncontrado = errors.New("registro de plataforma não encontrado")

// Store é o acesso aos registros brutos das plataformas.
type Store interface {
	// SubstituirSemana apaga e recria os registros de uma plataforma na semana.
	SubstituirSemana(ctx context.Context, s semana.ID, p Plataforma, regs []Registro) error
	ListarPorSemana(ctx context.Context, s semana.ID) ([]Registro, error)
	ListarNaoMapeados(ctx context.Context, s semana.ID) ([]Registro, error)
	ListarPorMotorista(ctx context.Context, s semana.ID, motoristaID string) ([]Registro, error)
	BuscarPorID(ctx context.Context, id uint) (*Registro, error)
	// AtribuirMotorista só grava em registros sem motorista; false se já estava preenchido.
	AtribuirMotorista(ctx context.Context, id uint, a Atribuicao) (bool, error)
	LimparMotorista(ctx context.Context, id uint) error
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

func (r *Repository) SubstituirSemana(ctx context.Context, s semana.ID, p Plataforma, regs []Registro) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("semana_id = ? AND plataforma = ?", string(s), p).
			Delete(&Registro{}).Error; err != nil {
			return err
		}
		if len(regs) == 0 {
			return nil
		}
		for i := range regs {
			regs[i].ID = 0
			regs[i].SemanaID = string(s)
			regs[i].Plataforma = p
		}
		return tx.CreateInBatches(regs, 500).Error
	})
}

func (r *Repository) ListarPorSemana(ctx context.Context, s semana.ID) ([]Registro, error) {
	var list []Registro
	err := r.DB.WithContext(ctx).
		Where("semana_id = ?", string(s)).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// ListarNaoMapeados é a fila de mapeamento manual.
func (r *Repository) ListarNaoMapeados(ctx context.Context, s semana.ID) ([]Registro, error) {
	var list []Registro
	err := r.DB.WithContext(ctx).
		Where("semana_id = ? AND (motorista_id IS NULL OR motorista_id = '')", string(s)).
		Order("plataforma ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) ListarPorMotorista(ctx context.Context, s semana.ID, motoristaID string) ([]Registro, error) {
	var list []Registro
	err := r.DB.WithContext(ctx).
		Where("semana_id = ? AND motorista_id = ?", string(s), motoristaID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) BuscarPorID(ctx context.Context, id uint) (*Registro, error) {
	var reg Registro
	if err := r.DB.WithContext(ctx).First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}
	return &reg, nil
}

func (r *Repository) AtribuirMotorista(ctx context.Context, id uint, a Atribuicao) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&Registro{}).
		Where("id = ? AND (motorista_id IS NULL OR motorista_id = '')", id).
		Updates(map[string]interface{}{
			"motorista_id":        a.MotoristaID,
			"motorista_nome":      a.MotoristaNome,
			"regra_identificacao": a.Regra,
			"baixa_confianca":     a.BaixaConfianca,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// LimparMotorista remove a atribuição explicitamente, liberando nova identificação.
func (r *Repository) LimparMotorista(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&Registro{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"motorista_id":        nil,
			"motorista_nome":      "",
			"regra_identificacao": "",
			"baixa_confianca":     false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNaoEncontrado
	}
	return nil
}

// Ganhos expõe os ganhos de viagens da semana para o motor de comissões.
type Ganhos struct {
	Store Store
}

func (g Ganhos) GanhosSemana(ctx context.Context, motoristaID string, s semana.ID) (decimal.Decimal, error) {
	regs, err := g.Store.ListarPorMotorista(ctx, s, motoristaID)
	if err != nil {
		return decimal.Zero, err
	}
	return SomarTotais(regs).Ganhos(), nil
}
