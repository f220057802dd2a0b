package extrato

import (
	"testing"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, esperado string, got decimal.Decimal, campo string) {
	t.Helper()
	assert.True(t, dec(esperado).Equal(got), "%s: esperado %s, obtido %s", campo, esperado, got)
}

func entradaExemplo() Entrada {
	return Entrada{
		MotoristaID:    "m1",
		SemanaID:       "2025-W40",
		GanhosRideA:    dec("150.50"),
		GanhosRideB:    dec("117.30"),
		TaxaIVA:        dec("6"),
		TaxaAdm:        TaxaAdm{Modo: config.TaxaPercentual, Valor: dec("7")},
		Financiamentos: []LinhaFinanciamento{{FinanciamentoID: "f1", JurosSemanal: dec("4")}},
	}
}

func TestCalcularCascataExemplo(t *testing.T) {
	r := Calcular(entradaExemplo())

	assertDec(t, "267.80", r.GanhosTotal, "ganhosTotal")
	assertDec(t, "16.07", r.IvaValor, "ivaValor")
	assertDec(t, "251.73", r.GanhosMenosIVA, "ganhosMenosIVA")
	assertDec(t, "17.62", r.DespesasBase, "despesasBase")
	assertDec(t, "10.07", r.JurosFinanciamento, "juros")
	assertDec(t, "27.69", r.DespesasAdm, "despesasAdm")
	assertDec(t, "0", r.CustoFinanciamento, "custoFinanciamento")
	assertDec(t, "224.04", r.Repasse, "repasse")
	assert.Equal(t, "m1_2025-W40", r.ID)
}

func TestCalcularIsencaoZeraSoTaxaBase(t *testing.T) {
	e := entradaExemplo()
	e.Isento = true
	r := Calcular(e)
	assertDec(t, "0", r.DespesasBase, "despesasBase")
	assertDec(t, "10.07", r.DespesasAdm, "despesasAdm")
	assertDec(t, "241.66", r.Repasse, "repasse")
}

func TestCalcularTaxaFixaDescontosEComissao(t *testing.T) {
	e := entradaExemplo()
	e.TaxaAdm = TaxaAdm{Modo: config.TaxaFixa, Valor: dec("25")}
	e.Financiamentos = []LinhaFinanciamento{{FinanciamentoID: "f1", Parcela: dec("50")}}
	e.Combustivel = dec("40")
	e.Portagens = dec("10")
	e.Aluguel = dec("100")
	e.Comissao = dec("12.50")

	r := Calcular(e)
	// 251.732 - 25 - 40 - 10 - 100 - 50 + 12.50
	assertDec(t, "25", r.DespesasAdm, "despesasAdm")
	assertDec(t, "50", r.CustoFinanciamento, "custoFinanciamento")
	assertDec(t, "39.23", r.Repasse, "repasse")
}

func TestCalcularSemDados(t *testing.T) {
	r := Calcular(Entrada{MotoristaID: "m1", SemanaID: "2025-W40", TaxaAdm: TaxaAdm{Modo: config.TaxaPercentual, Valor: dec("7")}})
	assert.True(t, r.Repasse.IsZero())
	assert.True(t, r.DespesasAdm.IsZero())
	assert.Empty(t, r.Financiamentos)
}

func TestCalcularIdempotente(t *testing.T) {
	e := entradaExemplo()
	a, b := Calcular(e), Calcular(e)
	assert.True(t, a.Repasse.Equal(b.Repasse))
	assert.True(t, a.DespesasAdm.Equal(b.DespesasAdm))
	assert.Len(t, e.Financiamentos, 1, "entrada não é alterada")
}

func TestMontarEntrada(t *testing.T) {
	sem, err := semana.Parse("2025-W40")
	require.NoError(t, err)
	cfg := config.Padrao()
	tres := 3

	m := motorista.Motorista{
		ID: "m1", Nome: "João", Tipo: motorista.TipoAfiliado,
		ValorAluguel:   dec("120"),
		SemanasIsencao: 2,
	}
	fins := []financiamento.Financiamento{
		{ID: "f1", MotoristaID: "m1", Status: financiamento.StatusAtivo, Valor: dec("300"), Semanas: &tres, JurosSemanal: dec("4"),
			DataInicio: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "f2", MotoristaID: "m1", Status: financiamento.StatusAtivo, Valor: dec("100"),
			DataInicio: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "f3", MotoristaID: "m1", Status: financiamento.StatusConcluido, Valor: dec("100"),
			DataInicio: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	tot := plataforma.Totais{RideA: dec("100"), Combustivel: dec("20")}

	e := MontarEntrada(m, sem, tot, fins, dec("5"), cfg)
	assert.Equal(t, config.TaxaPercentual, e.TaxaAdm.Modo)
	assertDec(t, "7", e.TaxaAdm.Valor, "taxa")
	assertDec(t, "6", e.TaxaIVA, "iva")
	assert.True(t, e.Isento)
	assert.True(t, e.Aluguel.IsZero(), "afiliado não paga aluguel")
	require.Len(t, e.Financiamentos, 1)
	assert.Equal(t, "f1", e.Financiamentos[0].FinanciamentoID)
	assertDec(t, "100", e.Financiamentos[0].Parcela, "parcela")

	m.Tipo = motorista.TipoLocatario
	m.TaxaAdmModo = config.TaxaFixa
	m.TaxaAdmValor = decimal.NewNullDecimal(dec("30"))
	e = MontarEntrada(m, sem, tot, fins, decimal.Zero, cfg)
	assert.Equal(t, config.TaxaFixa, e.TaxaAdm.Modo)
	assertDec(t, "30", e.TaxaAdm.Valor, "taxa")
	assertDec(t, "120", e.Aluguel, "aluguel")

	cfg.Financiamento.CalculoDinamico = false
	e = MontarEntrada(m, sem, tot, fins, decimal.Zero, cfg)
	assert.Len(t, e.Financiamentos, 2)
}
