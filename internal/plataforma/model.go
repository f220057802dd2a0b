// internal/plataforma/model.go
package plataforma

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plataforma é uma das fontes externas de ganhos ou despesas.
type Plataforma string

const (
	RideA             Plataforma = "ride-a"
	RideB             Plataforma = "ride-b"
	CartaoCombustivel Plataforma = "fuel-card"
	Portagem          Plataforma = "toll-road"
)

// Todas lista as plataformas na ordem em que aparecem no acompanhamento semanal.
var Todas = []Plataforma{RideA, RideB, CartaoCombustivel, Portagem}

var ErrPlataformaInvalida = errors.New("plataforma inválida")

func Parse(s string) (Plataforma, error) {
	for _, p := range Todas {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrPlataformaInvalida, s)
}

// Ganho indica plataformas de viagens (receita); as demais são despesas.
func (p Plataforma) Ganho() bool {
	return p == RideA || p == RideB
}

// Linha é a linha normalizada entregue pelos parsers de cada plataforma.
type Linha struct {
	ReferenciaID     string          `json:"referenceId" validate:"required"`
	ReferenciaRotulo string          `json:"referenceLabel"`
	ValorTotal       decimal.Decimal `json:"totalValue"`
	TotalViagens     int             `json:"totalTrips" validate:"gte=0"`
}

// Registro é um RawPlatformRecord: uma linha por plataforma, semana e referência.
type Registro struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	SemanaID           string          `gorm:"size:10;not null;index:idx_registro_semana_plataforma" json:"semanaId"`
	Plataforma         Plataforma      `gorm:"size:20;not null;index:idx_registro_semana_plataforma" json:"plataforma"`
	ReferenciaID       string          `gorm:"size:255;not null" json:"referenciaId"`
	ReferenciaRotulo   string          `gorm:"size:255" json:"referenciaRotulo"`
	ValorTotal         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"valorTotal"`
	TotalViagens       int             `gorm:"not null;default:0" json:"totalViagens"`
	MotoristaID        *string         `gorm:"size:64;index" json:"motoristaId"`
	MotoristaNome      string          `gorm:"size:255" json:"motoristaNome,omitempty"`
	RegraIdentificacao string          `gorm:"size:40" json:"regraIdentificacao,omitempty"`
	BaixaConfianca     bool            `gorm:"not null;default:false" json:"baixaConfianca"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (Registro) TableName() string { return "registros_plataforma" }

// Resolvido indica que o registro já tem motorista atribuído.
func (r Registro) Resolvido() bool {
	return r.MotoristaID != nil && *r.MotoristaID != ""
}

// Atribuicao é o resultado da identificação gravado num registro.
type Atribuicao struct {
	MotoristaID    string
	MotoristaNome  string
	Regra          string
	BaixaConfianca bool
}

// Totais são as somas semanais de um motorista por plataforma.
type Totais struct {
	RideA       decimal.Decimal `json:"rideA"`
	RideB       decimal.Decimal `json:"rideB"`
	Combustivel decimal.Decimal `json:"combustivel"`
	Portagens   decimal.Decimal `json:"portagens"`
	Viagens     int             `json:"viagens"`
}

// Ganhos soma apenas as plataformas de viagens.
func (t Totais) Ganhos() decimal.Decimal {
	return t.RideA.Add(t.RideB)
}

// SomarTotais agrupa registros por plataforma; ausentes contam como zero.
func SomarTotais(regs []Registro) Totais {
	var t Totais
	for _, r := range regs {
		switch r.Plataforma {
		case RideA:
			t.RideA = t.RideA.Add(r.ValorTotal)
			t.Viagens += r.TotalViagens
		case RideB:
			t.RideB = t.RideB.Add(r.ValorTotal)
			t.Viagens += r.TotalViagens
		case CartaoCombustivel:
			t.Combustivel = t.Combustivel.Add(r.ValorTotal)
		case Portagem:
			t.Portagens = t.Portagens.Add(r.ValorTotal)
		}
	}
	return t
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Registro{})
}
