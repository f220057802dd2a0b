// internal/comissao/model.go
package comissao

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TipoRegra string

const (
	TipoBase         TipoRegra = "base"
	TipoRecrutamento TipoRegra = "recruitment"
)

// Criterios que uma regra exige para gerar comissão.
type Criterios struct {
	MinGanhos     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"minGanhos"`
	MinRecrutados int             `gorm:"not null;default:0" json:"minRecrutados"`
}

// Regra de comissão. Nunca é editada: só ativada/desativada ou substituída por outra versão.
type Regra struct {
	ID             string              `gorm:"primaryKey;size:36" json:"id"`
	Tipo           TipoRegra           `gorm:"size:20;not null;index:idx_regra_tipo_nivel" json:"tipo"`
	Nivel          int                 `gorm:"not null;index:idx_regra_tipo_nivel" json:"nivel"`
	Percentual     decimal.Decimal     `gorm:"type:numeric(7,4);not null;default:0" json:"percentual"`
	ValorFixo      decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"valorFixo"`
	Criterios      Criterios           `gorm:"embedded;embeddedPrefix:criterio_" json:"criterios"`
	Ativa          bool                `gorm:"not null;default:true" json:"ativa"`
	SubstituidaPor *string             `gorm:"size:36" json:"substituidaPor,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func (Regra) TableName() string { return "regras_comissao" }

// Contribuicao aplica a regra sobre uma base de ganhos.
func (r Regra) Contribuicao(ganhos decimal.Decimal) decimal.Decimal {
	if r.ValorFixo.Valid {
		return r.ValorFixo.Decimal
	}
	return ganhos.Mul(r.Percentual).Div(decimal.NewFromInt(100))
}

type StatusBonus string

const (
	BonusPendente StatusBonus = "pending"
	BonusPago     StatusBonus = "paid"
)

// BonusIndicacao é um valor avulso devido ao motorista por uma indicação.
type BonusIndicacao struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	MotoristaID string          `gorm:"size:64;not null;index" json:"motoristaId"`
	IndicadoID  string          `gorm:"size:64;not null" json:"indicadoId"`
	Valor       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"valor"`
	Status      StatusBonus     `gorm:"size:20;not null;index" json:"status"`
	PagamentoID *string         `gorm:"size:36;index" json:"pagamentoId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (BonusIndicacao) TableName() string { return "bonus_indicacao" }

// Migrate cria as tabelas no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Regra{}, &BonusIndicacao{})
}
