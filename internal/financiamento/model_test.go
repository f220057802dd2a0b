package financiamento

import (
	"testing"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var agora = time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func novoEmprestimo(semanas int) *Financiamento {
	return &Financiamento{
		ID:                   "f1",
		MotoristaID:          "m1",
		Tipo:                 TipoEmprestimo,
		Valor:                decimal.NewFromInt(300),
		Semanas:              intPtr(semanas),
		SemanasRestantes:     intPtr(semanas),
		JurosSemanal:         decimal.NewFromInt(4),
		DataInicio:           time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Status:               StatusAtivo,
		RegistrosProcessados: []string{},
	}
}

func TestParcelaSemanal(t *testing.T) {
	f := novoEmprestimo(3)
	assert.True(t, decimal.NewFromInt(100).Equal(f.ParcelaSemanal()))

	f.Semanas = nil
	assert.True(t, f.ParcelaSemanal().IsZero())
}

func TestAplicarPagamentoIdempotente(t *testing.T) {
	f := novoEmprestimo(3)

	ap, mudou := f.AplicarPagamento("p1", agora)
	require.True(t, mudou)
	assert.True(t, ap.ParcelaPaga)
	assert.Equal(t, 2, *ap.ParcelasRestantes)

	antes := *f
	antes.RegistrosProcessados = append([]string{}, f.RegistrosProcessados...)
	ap, mudou = f.AplicarPagamento("p1", agora)
	assert.False(t, mudou)
	assert.False(t, ap.ParcelaPaga)
	assert.True(t, MesmoEstado(antes, *f))
	assert.Equal(t, []string{"p1"}, f.RegistrosProcessados)
}

func TestAplicarPagamentoMonotonico(t *testing.T) {
	f := novoEmprestimo(3)
	anterior := *f.SemanasRestantes
	transicoes := 0
	for i, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		statusAntes := f.Status
		f.AplicarPagamento(id, agora.AddDate(0, 0, 7*i))
		require.NotNil(t, f.SemanasRestantes)
		assert.LessOrEqual(t, *f.SemanasRestantes, anterior)
		assert.GreaterOrEqual(t, *f.SemanasRestantes, 0)
		assert.Equal(t, *f.SemanasRestantes == 0, f.Status == StatusConcluido)
		if statusAntes != f.Status {
			transicoes++
		}
		anterior = *f.SemanasRestantes
	}
	assert.Equal(t, 1, transicoes)
	assert.Len(t, f.RegistrosProcessados, 3)
	require.NotNil(t, f.DataFim)
	assert.Equal(t, agora.AddDate(0, 0, 14), *f.DataFim)
}

func TestSemPrazoNuncaConcluiSozinho(t *testing.T) {
	f := novoEmprestimo(1)
	f.Semanas = nil
	f.SemanasRestantes = nil
	for _, id := range []string{"p1", "p2", "p3"} {
		_, mudou := f.AplicarPagamento(id, agora)
		assert.True(t, mudou)
	}
	assert.Equal(t, StatusAtivo, f.Status)
	assert.Nil(t, f.SemanasRestantes)

	require.NoError(t, f.Concluir(agora))
	assert.Equal(t, StatusConcluido, f.Status)
	assert.NotNil(t, f.DataFim)
}

func TestConcluirComPrazoNegado(t *testing.T) {
	f := novoEmprestimo(4)
	assert.ErrorIs(t, f.Concluir(agora), ErrSemPrazo)
	assert.Equal(t, StatusAtivo, f.Status)
}

func TestElegivel(t *testing.T) {
	sem, err := semana.Parse("2025-W40") // 29/09 a 05/10
	require.NoError(t, err)

	meioDaSemana := novoEmprestimo(3)
	meioDaSemana.DataInicio = time.Date(2025, 10, 2, 10, 0, 0, 0, time.UTC)

	fim := config.Financiamento{CalculoDinamico: true, PoliticaElegibilidade: config.PoliticaFimSemana}
	inicio := config.Financiamento{CalculoDinamico: true, PoliticaElegibilidade: config.PoliticaInicioSemana}
	estatico := config.Financiamento{CalculoDinamico: false}

	assert.True(t, meioDaSemana.Elegivel(sem, fim))
	assert.False(t, meioDaSemana.Elegivel(sem, inicio))

	futuro := novoEmprestimo(3)
	futuro.DataInicio = time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, futuro.Elegivel(sem, fim))
	assert.True(t, futuro.Elegivel(sem, estatico))

	concluido := novoEmprestimo(3)
	concluido.Status = StatusConcluido
	assert.False(t, concluido.Elegivel(sem, estatico))
}

func TestReconstruir(t *testing.T) {
	f := novoEmprestimo(3)
	f.RegistrosProcessados = []string{"p1", "p2", "p3"}
	f.SemanasRestantes = intPtr(1) // deriva

	require.NoError(t, f.Reconstruir([]string{"p1", "p2"}, agora))
	assert.Equal(t, 1, *f.SemanasRestantes)
	assert.ElementsMatch(t, []string{"p1", "p2"}, f.RegistrosProcessados)
	assert.Equal(t, StatusAtivo, f.Status)

	require.NoError(t, f.Reconstruir([]string{"p1", "p2", "p9"}, agora))
	assert.Equal(t, 0, *f.SemanasRestantes)
	assert.Equal(t, StatusConcluido, f.Status)
	assert.NotNil(t, f.DataFim)
}

func TestReconstruirNaoReabre(t *testing.T) {
	f := novoEmprestimo(2)
	f.AplicarPagamento("p1", agora)
	f.AplicarPagamento("p2", agora)
	require.Equal(t, StatusConcluido, f.Status)

	err := f.Reconstruir([]string{"p1"}, agora)
	assert.ErrorIs(t, err, ErrReaberturaNegada)
	assert.Equal(t, StatusConcluido, f.Status)
}

func TestReconstruirMantemOrdemQuandoConjuntoIgual(t *testing.T) {
	f := novoEmprestimo(5)
	f.AplicarPagamento("b", agora)
	f.AplicarPagamento("a", agora)
	antes := *f
	antes.RegistrosProcessados = append([]string{}, f.RegistrosProcessados...)

	require.NoError(t, f.Reconstruir([]string{"a", "b"}, agora))
	assert.Equal(t, []string{"b", "a"}, f.RegistrosProcessados)
	assert.True(t, MesmoEstado(antes, *f))
}

func TestReverterPagamentoReabre(t *testing.T) {
	f := novoEmprestimo(2)
	f.AplicarPagamento("p1", agora)
	f.AplicarPagamento("p2", agora)
	require.Equal(t, StatusConcluido, f.Status)

	assert.True(t, f.ReverterPagamento("p2"))
	assert.Equal(t, []string{"p1"}, f.RegistrosProcessados)
	assert.Equal(t, 1, *f.SemanasRestantes)
	assert.Equal(t, StatusAtivo, f.Status)
	assert.Nil(t, f.DataFim)

	assert.False(t, f.ReverterPagamento("p2"))

	_, ok := f.AplicarPagamento("p3", agora)
	assert.True(t, ok)
	assert.Equal(t, StatusConcluido, f.Status)
	assert.Equal(t, 0, *f.SemanasRestantes)
}

func TestReverterPagamentoSemPrazo(t *testing.T) {
	f := novoEmprestimo(3)
	f.Semanas = nil
	f.SemanasRestantes = nil
	f.AplicarPagamento("p1", agora)

	assert.True(t, f.ReverterPagamento("p1"))
	assert.Empty(t, f.RegistrosProcessados)
	assert.Nil(t, f.SemanasRestantes)
}
