package main

import (
	"fmt"

	"github.com/KromaEnergia/api-repasses/internal/comissao"
	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/extrato"
	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/KromaEnergia/api-repasses/internal/fontes"
	"github.com/KromaEnergia/api-repasses/internal/memoria"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/pagamento"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/utils/db"
	"gorm.io/gorm"
)

// backend reúne os stores usados pelos serviços.
type backend struct {
	Motoristas     motorista.Store
	Registros      plataforma.Store
	Fontes         fontes.Store
	Financiamentos financiamento.Store
	Comissoes      comissao.Store
	Estados        extrato.EstadoStore
	Pagamentos     pagamento.Store
	Tx             pagamento.Transacionador
}

func backendMemoria(b *memoria.Banco) backend {
	return backend{
		Motoristas:     b.Motoristas(),
		Registros:      b.Plataforma(),
		Fontes:         b.Fontes(),
		Financiamentos: b.Financiamentos(),
		Comissoes:      b.Comissoes(),
		Estados:        b.Estados(),
		Pagamentos:     b.Pagamentos(),
		Tx:             b,
	}
}

func backendGorm(database *gorm.DB) backend {
	return backend{
		Motoristas:     motorista.NewRepository(database),
		Registros:      plataforma.NewRepository(database),
		Fontes:         fontes.NewRepository(database),
		Financiamentos: financiamento.NewRepository(database),
		Comissoes:      comissao.NewRepository(database),
		Estados:        extrato.NewRepository(database),
		Pagamentos:     pagamento.NewRepository(database),
		Tx:             pagamento.GormTransacionador{DB: database},
	}
}

func migrar(database *gorm.DB) error {
	migracoes := []struct {
		nome string
		fn   func(*gorm.DB) error
	}{
		{"motoristas", motorista.Migrate},
		{"registros de plataforma", plataforma.Migrate},
		{"fontes", fontes.Migrate},
		{"financiamentos", financiamento.Migrate},
		{"comissões", comissao.Migrate},
		{"registros semanais", extrato.Migrate},
		{"pagamentos", pagamento.Migrate},
	}
	for _, m := range migracoes {
		if err := m.fn(database); err != nil {
			return fmt.Errorf("erro no AutoMigrate de %s: %w", m.nome, err)
		}
	}
	return nil
}

func abrirBackend(app config.App) (backend, error) {
	switch app.DBDriver {
	case "memoria":
		return backendMemoria(memoria.Novo()), nil
	case "postgres":
		database, err := db.GetDB(app)
		if err != nil {
			return backend{}, err
		}
		if err := migrar(database); err != nil {
			return backend{}, err
		}
		return backendGorm(database), nil
	}
	return backend{}, fmt.Errorf("DB_DRIVER desconhecido %q (postgres ou memoria)", app.DBDriver)
}
