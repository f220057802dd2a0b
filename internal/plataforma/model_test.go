package plataforma

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParse(t *testing.T) {
	p, err := Parse("toll-road")
	require.NoError(t, err)
	assert.Equal(t, Portagem, p)

	_, err = Parse("uber")
	assert.ErrorIs(t, err, ErrPlataformaInvalida)
}

func TestSomarTotais(t *testing.T) {
	regs := []Registro{
		{Plataforma: RideA, ValorTotal: dec("120.50"), TotalViagens: 10},
		{Plataforma: RideA, ValorTotal: dec("30.00"), TotalViagens: 2},
		{Plataforma: RideB, ValorTotal: dec("117.30"), TotalViagens: 8},
		{Plataforma: CartaoCombustivel, ValorTotal: dec("45.10")},
		{Plataforma: Portagem, ValorTotal: dec("8.40")},
	}
	tot := SomarTotais(regs)
	assert.True(t, dec("150.50").Equal(tot.RideA))
	assert.True(t, dec("117.30").Equal(tot.RideB))
	assert.True(t, dec("267.80").Equal(tot.Ganhos()))
	assert.True(t, dec("45.10").Equal(tot.Combustivel))
	assert.True(t, dec("8.40").Equal(tot.Portagens))
	assert.Equal(t, 20, tot.Viagens)
}

func TestSomarTotaisVazio(t *testing.T) {
	tot := SomarTotais(nil)
	assert.True(t, tot.Ganhos().IsZero())
	assert.True(t, tot.Combustivel.IsZero())
}

func TestResolvido(t *testing.T) {
	vazio := ""
	id := "m1"
	assert.False(t, Registro{}.Resolvido())
	assert.False(t, Registro{MotoristaID: &vazio}.Resolvido())
	assert.True(t, Registro{MotoristaID: &id}.Resolvido())
}
