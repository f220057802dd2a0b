// internal/fontes/model.go
package fontes

import (
	"time"

	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPendente Status = "pending"
	StatusParcial  Status = "partial"
	StatusCompleta Status = "complete"
)

// Valido aceita só os três estados conhecidos.
func (s Status) Valido() bool {
	return s == StatusPendente || s == StatusParcial || s == StatusCompleta
}

type Origem string

const (
	OrigemAuto   Origem = "auto"
	OrigemManual Origem = "manual"
)

// StatusFonte é o DataSourceStatus de uma plataforma numa semana.
type StatusFonte struct {
	Status      Status     `json:"status"`
	Origem      Origem     `json:"origem"`
	ImportadoEm *time.Time `json:"importadoEm,omitempty"`
	Registros   int        `json:"registros"`
	Motoristas  int        `json:"motoristas"`
	UltimoErro  string     `json:"ultimoErro,omitempty"`
}

// FontesSemana acompanha a completude de cada plataforma numa semana.
// Semanas nunca são apagadas.
type FontesSemana struct {
	SemanaID  string                                 `gorm:"primaryKey;size:10" json:"semanaId"`
	Fontes    map[plataforma.Plataforma]StatusFonte `gorm:"serializer:json;type:jsonb;not null" json:"fontes"`
	Completa  bool                                   `gorm:"not null;default:false" json:"completa"`
	CreatedAt time.Time                              `json:"createdAt"`
	UpdatedAt time.Time                              `json:"updatedAt"`
}

func (FontesSemana) TableName() string { return "fontes_semana" }

// NovaSemana cria o acompanhamento com todas as plataformas pendentes.
func NovaSemana(s semana.ID) *FontesSemana {
	f := &FontesSemana{SemanaID: string(s), Fontes: make(map[plataforma.Plataforma]StatusFonte, len(plataforma.Todas))}
	for _, p := range plataforma.Todas {
		f.Fontes[p] = StatusFonte{Status: StatusPendente, Origem: OrigemAuto}
	}
	return f
}

// Atualizar grava o status de uma plataforma e recalcula Completa.
func (f *FontesSemana) Atualizar(p plataforma.Plataforma, st StatusFonte) {
	if f.Fontes == nil {
		f.Fontes = map[plataforma.Plataforma]StatusFonte{}
	}
	f.Fontes[p] = st
	f.Completa = f.calcularCompleta()
}

func (f *FontesSemana) calcularCompleta() bool {
	for _, p := range plataforma.Todas {
		if f.Fontes[p].Status != StatusCompleta {
			return false
		}
	}
	return true
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&FontesSemana{})
}
