package identificacao_test

import (
	"context"
	"testing"

	"github.com/KromaEnergia/api-repasses/internal/identificacao"
	"github.com/KromaEnergia/api-repasses/internal/memoria"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const sem = semana.ID("2025-W40")

func preparar(t *testing.T) (*memoria.Banco, *identificacao.Servico, *observer.ObservedLogs) {
	t.Helper()
	ctx := context.Background()
	b := memoria.Novo()
	for _, m := range []motorista.Motorista{
		{ID: "m1", Nome: "João Silva", UUIDRideA: "uuid-1", Matricula: "AA-11-BB", Ativo: true},
		{ID: "m2", Nome: "Maria Santos", EmailRideB: "maria@mail.pt", Ativo: true},
	} {
		m := m
		require.NoError(t, b.Motoristas().Salvar(ctx, &m))
	}

	require.NoError(t, b.Plataforma().SubstituirSemana(ctx, sem, plataforma.RideA, []plataforma.Registro{
		{ReferenciaID: "UUID-1", ValorTotal: decimal.NewFromInt(100)},
	}))
	require.NoError(t, b.Plataforma().SubstituirSemana(ctx, sem, plataforma.RideB, []plataforma.Registro{
		{ReferenciaID: "desconhecido@mail.pt", ReferenciaRotulo: "maria s.", ValorTotal: decimal.NewFromInt(50)},
	}))
	require.NoError(t, b.Plataforma().SubstituirSemana(ctx, sem, plataforma.Portagem, []plataforma.Registro{
		{ReferenciaID: "GP798SH", ReferenciaRotulo: "GP798SH", ValorTotal: decimal.NewFromInt(8)},
		{ReferenciaID: "T-1", ReferenciaRotulo: "aa 11 bb", ValorTotal: decimal.NewFromInt(4)},
	}))

	core, logs := observer.New(zap.InfoLevel)
	return b, identificacao.NewServico(b.Plataforma(), b.Motoristas(), zap.New(core)), logs
}

func TestResolverSemanaComRegistroNaoMapeado(t *testing.T) {
	ctx := context.Background()
	b, s, logs := preparar(t)

	rel, err := s.ResolverSemana(ctx, sem)
	require.NoError(t, err)
	assert.Equal(t, 3, rel.Resolvidos)
	assert.Equal(t, 1, rel.BaixaConfianca)
	require.Len(t, rel.NaoResolvidos, 1)
	assert.Equal(t, "GP798SH", rel.NaoResolvidos[0].ReferenciaRotulo)
	assert.True(t, rel.Lote.Ok())

	fila, err := s.NaoMapeados(ctx, sem)
	require.NoError(t, err)
	require.Len(t, fila, 1)
	assert.Nil(t, fila[0].MotoristaID)
	assert.Equal(t, plataforma.Portagem, fila[0].Plataforma)

	regs, err := b.Plataforma().ListarPorMotorista(ctx, sem, "m1")
	require.NoError(t, err)
	assert.Len(t, regs, 2)

	assert.Equal(t, 1, logs.FilterMessage("identificação de baixa confiança").Len())
	assert.Equal(t, 1, logs.FilterMessage("registro sem correspondência").Len())
}

func TestResolverSemanaEstavel(t *testing.T) {
	ctx := context.Background()
	b, s, _ := preparar(t)

	_, err := s.ResolverSemana(ctx, sem)
	require.NoError(t, err)
	antes, err := b.Plataforma().ListarPorSemana(ctx, sem)
	require.NoError(t, err)

	// um motorista novo que casaria por nome com um registro já resolvido
	require.NoError(t, b.Motoristas().Salvar(ctx, &motorista.Motorista{ID: "m0", Nome: "Maria Souza", Ativo: true}))

	rel, err := s.ResolverSemana(ctx, sem)
	require.NoError(t, err)
	assert.Equal(t, 0, rel.Resolvidos)
	assert.Equal(t, 3, rel.JaResolvidos)

	depois, err := b.Plataforma().ListarPorSemana(ctx, sem)
	require.NoError(t, err)
	require.Len(t, depois, len(antes))
	for i := range antes {
		assert.Equal(t, antes[i].MotoristaID, depois[i].MotoristaID, "registro %d", antes[i].ID)
	}
}

func TestMapearELimpar(t *testing.T) {
	ctx := context.Background()
	_, s, _ := preparar(t)
	_, err := s.ResolverSemana(ctx, sem)
	require.NoError(t, err)

	fila, err := s.NaoMapeados(ctx, sem)
	require.NoError(t, err)
	require.Len(t, fila, 1)
	id := fila[0].ID

	reg, err := s.Mapear(ctx, id, "m2")
	require.NoError(t, err)
	assert.Equal(t, "m2", *reg.MotoristaID)
	assert.Equal(t, string(identificacao.RegraManual), reg.RegraIdentificacao)

	_, err = s.Mapear(ctx, id, "m1")
	assert.ErrorIs(t, err, identificacao.ErrJaMapeado)

	_, err = s.Mapear(ctx, id, "m2")
	assert.NoError(t, err, "mapear de novo para o mesmo motorista não é erro")

	require.NoError(t, s.Limpar(ctx, id))
	reg, err = s.Mapear(ctx, id, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", *reg.MotoristaID)

	_, err = s.Mapear(ctx, id, "nao-existe")
	assert.ErrorIs(t, err, motorista.ErrNaoEncontrado)
}
