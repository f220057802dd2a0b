package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func escrever(t *testing.T, conteudo string) string {
	t.Helper()
	caminho := filepath.Join(t.TempDir(), "financeiro.yaml")
	require.NoError(t, os.WriteFile(caminho, []byte(conteudo), 0o600))
	return caminho
}

func TestPadrao(t *testing.T) {
	cfg, err := CarregarFinanceiro("")
	require.NoError(t, err)
	assert.Equal(t, Padrao(), cfg)
	assert.NoError(t, cfg.Validar())
	assert.Equal(t, 7.0, cfg.TaxaAdmPercentual)
	assert.Equal(t, 25.0, cfg.TaxaAdmFixaPadrao)
	assert.Equal(t, PoliticaFimSemana, cfg.Financiamento.PoliticaElegibilidade)
}

func TestCarregarSobrescreveApenasChavesPresentes(t *testing.T) {
	caminho := escrever(t, `
adminFeePercent: 5
financing:
  eligibilityPolicy: startDateToWeekStart
  paymentDecrementDynamic: false
`)
	cfg, err := CarregarFinanceiro(caminho)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.TaxaAdmPercentual)
	assert.Equal(t, 25.0, cfg.TaxaAdmFixaPadrao)
	assert.Equal(t, PoliticaInicioSemana, cfg.Financiamento.PoliticaElegibilidade)
	assert.False(t, cfg.Financiamento.DecrementoDinamico)
	assert.True(t, cfg.Financiamento.CalculoDinamico)
}

func TestCarregarRejeitaPolitica(t *testing.T) {
	caminho := escrever(t, "financing:\n  eligibilityPolicy: sempre\n")
	_, err := CarregarFinanceiro(caminho)
	assert.Error(t, err)
}

func TestCarregarRejeitaPercentual(t *testing.T) {
	caminho := escrever(t, "adminFeePercent: 140\n")
	_, err := CarregarFinanceiro(caminho)
	assert.Error(t, err)
}

func TestCarregarArquivoAusente(t *testing.T) {
	_, err := CarregarFinanceiro(filepath.Join(t.TempDir(), "nao-existe.yaml"))
	assert.Error(t, err)
}

func TestCarregarAmbiente(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "memoria")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	app := CarregarAmbiente()
	assert.Equal(t, "9090", app.Porta)
	assert.Equal(t, "memoria", app.DBDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, app.OrigensCORS)
}
