// internal/motorista/model.go
package motorista

import (
	"time"

	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipo do vínculo do motorista com a frota.
type Tipo string

const (
	TipoAfiliado  Tipo = "affiliate"
	TipoLocatario Tipo = "renter"
)

// Motorista é mantido pelo cadastro de motoristas; aqui é lido e só a isenção é decrementada.
type Motorista struct {
	ID           string          `gorm:"primaryKey;size:64" json:"id"`
	Nome         string          `gorm:"size:255;not null" json:"nome"`
	Tipo         Tipo            `gorm:"size:20;not null;index" json:"tipo"`
	ValorAluguel decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"valorAluguel"`

	// Chaves de integração com as plataformas
	UUIDRideA         string `gorm:"column:uuid_ride_a;size:64;index" json:"uuidRideA"`
	EmailRideB        string `gorm:"column:email_ride_b;size:255;index" json:"emailRideB"`
	CartaoCombustivel string `gorm:"size:64;index" json:"cartaoCombustivel"`
	Matricula         string `gorm:"size:20;index" json:"matricula"`
	ChavePortagem     string `gorm:"size:64" json:"chavePortagem"`

	// Sobrescrita da taxa administrativa; modo vazio = usa o padrão da plataforma
	TaxaAdmModo  config.ModoTaxaAdm  `gorm:"size:20" json:"taxaAdmModo,omitempty"`
	TaxaAdmValor decimal.NullDecimal `gorm:"type:numeric(14,4)" json:"taxaAdmValor"`

	SemanasIsencao int    `gorm:"not null;default:0" json:"semanasIsencao"`
	MotivoIsencao  string `gorm:"size:255" json:"motivoIsencao,omitempty"`

	// Rede de indicação
	NivelAfiliado int     `gorm:"not null;default:1" json:"nivelAfiliado"`
	RecrutadoPor  *string `gorm:"size:64;index" json:"recrutadoPor,omitempty"`
	Ativo         bool    `gorm:"not null" json:"ativo"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Motorista) TableName() string { return "motoristas" }

// TemSobrescritaTaxa indica se o motorista tem taxa administrativa própria.
func (m Motorista) TemSobrescritaTaxa() bool {
	return m.TaxaAdmModo != "" && m.TaxaAdmValor.Valid
}

func (m Motorista) TemIsencao() bool { return m.SemanasIsencao > 0 }

// PagaAluguel só vale para locatários; afiliados usam viatura própria.
func (m Motorista) PagaAluguel() bool { return m.Tipo == TipoLocatario }

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Motorista{})
}
