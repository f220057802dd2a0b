package comissao_test

import (
	"context"
	"testing"

	"github.com/KromaEnergia/api-repasses/internal/comissao"
	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/memoria"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sem = semana.ID("2025-W40")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func str(s string) *string { return &s }

// rede: a1 (nível 1) recrutou a2 e a3; a2 recrutou a4; a4 recrutou a5; r1 é locatário.
func preparar(t *testing.T) (*memoria.Banco, *comissao.Motor, *comissao.Servico) {
	t.Helper()
	ctx := context.Background()
	b := memoria.Novo()
	motoristas := []motorista.Motorista{
		{ID: "a1", Nome: "Ana", Tipo: motorista.TipoAfiliado, NivelAfiliado: 1, Ativo: true, UUIDRideA: "a1"},
		{ID: "a2", Nome: "Bruno", Tipo: motorista.TipoAfiliado, NivelAfiliado: 1, Ativo: true, RecrutadoPor: str("a1"), UUIDRideA: "a2"},
		{ID: "a3", Nome: "Carla", Tipo: motorista.TipoAfiliado, NivelAfiliado: 1, Ativo: false, RecrutadoPor: str("a1"), UUIDRideA: "a3"},
		{ID: "a4", Nome: "Diogo", Tipo: motorista.TipoAfiliado, NivelAfiliado: 1, Ativo: true, RecrutadoPor: str("a2"), UUIDRideA: "a4"},
		{ID: "a5", Nome: "Eva", Tipo: motorista.TipoAfiliado, NivelAfiliado: 1, Ativo: true, RecrutadoPor: str("a4"), UUIDRideA: "a5"},
		{ID: "r1", Nome: "Rui", Tipo: motorista.TipoLocatario, Ativo: true},
	}
	for i := range motoristas {
		require.NoError(t, b.Motoristas().Salvar(ctx, &motoristas[i]))
	}

	ganhos := map[string]string{"a1": "500", "a2": "200", "a3": "300", "a4": "100", "a5": "1000"}
	var regs []plataforma.Registro
	for id, v := range ganhos {
		mid := id
		regs = append(regs, plataforma.Registro{ReferenciaID: id, ValorTotal: dec(v), MotoristaID: &mid})
	}
	require.NoError(t, b.Plataforma().SubstituirSemana(ctx, sem, plataforma.RideA, regs))

	motor := &comissao.Motor{
		Regras:     b.Comissoes(),
		Motoristas: b.Motoristas(),
		Ganhos:     plataforma.Ganhos{Store: b.Plataforma()},
		Cfg:        config.Comissao{Habilitada: true, ProfundidadeMaxima: 2},
	}
	return b, motor, comissao.NewServico(b.Comissoes(), motor, nil)
}

func TestCalcularBaseERecrutamento(t *testing.T) {
	ctx := context.Background()
	_, motor, s := preparar(t)

	_, err := s.CriarRegra(ctx, comissao.NovaRegra{Tipo: comissao.TipoBase, Nivel: 1, Percentual: dec("2"),
		Criterios: comissao.Criterios{MinGanhos: dec("100")}})
	require.NoError(t, err)
	_, err = s.CriarRegra(ctx, comissao.NovaRegra{Tipo: comissao.TipoRecrutamento, Nivel: 1, Percentual: dec("5")})
	require.NoError(t, err)
	_, err = s.CriarRegra(ctx, comissao.NovaRegra{Tipo: comissao.TipoRecrutamento, Nivel: 2,
		ValorFixo: decimal.NewNullDecimal(dec("3"))})
	require.NoError(t, err)

	res, err := motor.Calcular(ctx, "a1", sem)
	require.NoError(t, err)

	// base: 500 * 2% = 10
	assert.True(t, dec("10").Equal(res.Base), res.Base.String())
	// nível 1: a2 ativo, 200 * 5% = 10 (a3 inativo fica de fora)
	// nível 2: a4, valor fixo 3; a5 fica além da profundidade máxima
	assert.True(t, dec("13").Equal(res.Recrutamento), res.Recrutamento.String())
	assert.True(t, dec("23").Equal(res.Total()))
	assert.Len(t, res.Linhas, 3)
}

func TestCalcularCriteriosNaoAtendidos(t *testing.T) {
	ctx := context.Background()
	_, motor, s := preparar(t)

	_, err := s.CriarRegra(ctx, comissao.NovaRegra{Tipo: comissao.TipoBase, Nivel: 1, Percentual: dec("2"),
		Criterios: comissao.Criterios{MinGanhos: dec("600")}})
	require.NoError(t, err)
	_, err = s.CriarRegra(ctx, comissao.NovaRegra{Tipo: comissao.TipoRecrutamento, Nivel: 1, Percentual: dec("5"),
		Criterios: comissao.Criterios{MinRecrutados: 2}})
	require.NoError(t, err)

	res, err := motor.Calcular(ctx, "a1", sem)
	require.NoError(t, err)
	assert.True(t, res.Total().IsZero())
	require.Len(t, res.Linhas, 2)
	for _, l := range res.Linhas {
		assert.True(t, l.Valor.IsZero())
		assert.NotEmpty(t, l.Motivo)
	}
}

func TestCalcularNaoAfiliadoOuDesligado(t *testing.T) {
	ctx := context.Background()
	_, motor, s := preparar(t)
	_, err := s.CriarRegra(ctx, comissao.NovaRegra{Tipo: comissao.TipoBase, Nivel: 1, Percentual: dec("2")})
	require.NoError(t, err)

	res, err := motor.Calcular(ctx, "r1", sem)
	require.NoError(t, err)
	assert.True(t, res.Total().IsZero())
	assert.Empty(t, res.Linhas)

	motor.Cfg.Habilitada = false
	res, err = motor.Calcular(ctx, "a1", sem)
	require.NoError(t, err)
	assert.True(t, res.Total().IsZero())
}

func TestSubstituirRegraAfetaSoCalculosSeguintes(t *testing.T) {
	ctx := context.Background()
	_, motor, s := preparar(t)

	antiga, err := s.CriarRegra(ctx, comissao.NovaRegra{Tipo: comissao.TipoBase, Nivel: 1, Percentual: dec("2")})
	require.NoError(t, err)
	antes, err := motor.Calcular(ctx, "a1", sem)
	require.NoError(t, err)

	nova, err := s.SubstituirRegra(ctx, antiga.ID, comissao.NovaRegra{Tipo: comissao.TipoBase, Nivel: 1, Percentual: dec("4")})
	require.NoError(t, err)
	depois, err := motor.Calcular(ctx, "a1", sem)
	require.NoError(t, err)

	assert.True(t, dec("10").Equal(antes.Base))
	assert.True(t, dec("20").Equal(depois.Base))
	assert.Equal(t, nova.ID, depois.Linhas[0].RegraID)

	_, err = s.SubstituirRegra(ctx, antiga.ID, comissao.NovaRegra{Tipo: comissao.TipoBase, Nivel: 1})
	assert.ErrorIs(t, err, comissao.ErrRegraSubstituida)
	_, err = s.AlterarAtiva(ctx, antiga.ID, true)
	assert.ErrorIs(t, err, comissao.ErrRegraSubstituida)
}

func TestBonusPendentesEntramNaComissao(t *testing.T) {
	ctx := context.Background()
	b, motor, s := preparar(t)

	bonus, err := s.RegistrarBonus(ctx, "a1", "a2", dec("15"))
	require.NoError(t, err)

	res, err := motor.Calcular(ctx, "a1", sem)
	require.NoError(t, err)
	assert.True(t, dec("15").Equal(res.Bonus))
	assert.Equal(t, []string{bonus.ID}, res.BonusIDs)

	require.NoError(t, b.Comissoes().MarcarBonusPagos(ctx, res.BonusIDs, "p1"))
	assert.ErrorIs(t, b.Comissoes().MarcarBonusPagos(ctx, res.BonusIDs, "p2"), comissao.ErrBonusIndisponivel)

	res, err = motor.Calcular(ctx, "a1", sem)
	require.NoError(t, err)
	assert.True(t, res.Bonus.IsZero())
}

func TestCriarRegraInvalida(t *testing.T) {
	_, _, s := preparar(t)
	_, err := s.CriarRegra(context.Background(), comissao.NovaRegra{Tipo: comissao.TipoBase, Nivel: 4})
	assert.ErrorIs(t, err, comissao.ErrRegraInvalida)
}
