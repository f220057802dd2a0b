// internal/pagamento/model.go
package pagamento

import (
	"time"

	"github.com/KromaEnergia/api-repasses/internal/extrato"
	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pagamento é a entrada do ledger. Imutável depois de criada, exceto
// pelos campos de comprovante e pelo cancelamento.
type Pagamento struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	RegistroID    string `gorm:"size:80;not null;index" json:"registroId"`
	MotoristaID   string `gorm:"size:64;not null;index" json:"motoristaId"`
	MotoristaNome string `gorm:"size:255" json:"motoristaNome"`
	SemanaID      string `gorm:"size:10;not null;index" json:"semanaId"`

	ValorBase     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"valorBase"`
	ValorBonus    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"valorBonus"`
	ValorDesconto decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"valorDesconto"`
	ValorTotal    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"valorTotal"`
	TaxaAdmValor  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"taxaAdmValor"`
	IvaValor      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"ivaValor"`
	ComissaoPaga  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"comissaoPaga"`

	// Snapshot guarda as entradas do cálculo, suficientes para refazê-lo.
	Snapshot extrato.Entrada  `gorm:"serializer:json;type:jsonb;not null" json:"snapshot"`
	Calculo  extrato.Registro `gorm:"serializer:json;type:jsonb;not null" json:"calculo"`

	FinanciamentosProcessados []financiamento.Aplicacao `gorm:"serializer:json;type:jsonb;not null" json:"financiamentosProcessados"`
	BonusMarcados             []string                  `gorm:"serializer:json;type:jsonb;not null" json:"bonusMarcados"`

	ComprovanteURL  string     `gorm:"size:512" json:"comprovanteUrl,omitempty"`
	ComprovanteNota string     `gorm:"size:512" json:"comprovanteNota,omitempty"`
	ComprovanteEm   *time.Time `json:"comprovanteEm,omitempty"`

	CanceladoEm        *time.Time `gorm:"index" json:"canceladoEm,omitempty"`
	MotivoCancelamento string     `gorm:"size:255" json:"motivoCancelamento,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Pagamento) TableName() string { return "pagamentos" }

func (p Pagamento) Ativo() bool { return p.CanceladoEm == nil }

// Comprovante é o dado opcional anexado ao pagamento.
type Comprovante struct {
	URL  string `json:"url" validate:"omitempty,url"`
	Nota string `json:"nota"`
}

func (c *Comprovante) vazio() bool {
	return c == nil || (c.URL == "" && c.Nota == "")
}

// Migrate cria a tabela e o índice que garante um único pagamento ativo por registro.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Pagamento{}); err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_pagamento_registro_ativo
		ON pagamentos (registro_id) WHERE cancelado_em IS NULL`).Error
}
