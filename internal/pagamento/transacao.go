// internal/pagamento/transacao.go
package pagamento

import (
	"context"

	"github.com/KromaEnergia/api-repasses/internal/comissao"
	"github.com/KromaEnergia/api-repasses/internal/extrato"
	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"gorm.io/gorm"
)

// Repositorios são os stores vistos de dentro de uma transação.
type Repositorios struct {
	Pagamentos     Store
	Financiamentos financiamento.Store
	Estados        extrato.EstadoStore
	Comissoes      comissao.Store
	Motoristas     motorista.Store
}

// Transacionador executa fn atomicamente: erro em fn desfaz todas as escritas.
type Transacionador interface {
	Transacao(ctx context.Context, fn func(Repositorios) error) error
}

// RepositoriosGorm monta os repositórios sobre db (normalmente uma tx).
func RepositoriosGorm(db *gorm.DB) Repositorios {
	return Repositorios{
		Pagamentos:     NewRepository(db),
		Financiamentos: financiamento.NewRepository(db),
		Estados:        extrato.NewRepository(db),
		Comissoes:      comissao.NewRepository(db),
		Motoristas:     motorista.NewRepository(db),
	}
}

type GormTransacionador struct {
	DB *gorm.DB
}

var _ Transacionador = GormTransacionador{}

func (t GormTransacionador) Transacao(ctx context.Context, fn func(Repositorios) error) error {
	return t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(RepositoriosGorm(tx))
	})
}
