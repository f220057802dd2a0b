package identificacao

import (
	"testing"

	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func motoristasBase() []motorista.Motorista {
	return []motorista.Motorista{
		{ID: "m1", Nome: "João Silva", UUIDRideA: "AB12-CD34", EmailRideB: "joao@mail.pt", Matricula: "AA-11-BB", Ativo: true},
		{ID: "m2", Nome: "Maria Conceição", CartaoCombustivel: "7001 2002 3003", ChavePortagem: "VV-555", Matricula: "12-XY-34", Ativo: true},
		{ID: "m3", Nome: "Al Bo", Ativo: true},
	}
}

func TestResolverRegras(t *testing.T) {
	casos := []struct {
		nome      string
		reg       plataforma.Registro
		motorista string
		regra     Regra
	}{
		{
			nome:      "uuid ride-a ignora caixa e espaços",
			reg:       plataforma.Registro{Plataforma: plataforma.RideA, ReferenciaID: " ab12-cd34 "},
			motorista: "m1", regra: RegraChaveIntegracao,
		},
		{
			nome:      "email ride-b",
			reg:       plataforma.Registro{Plataforma: plataforma.RideB, ReferenciaID: "JOAO@mail.pt"},
			motorista: "m1", regra: RegraChaveIntegracao,
		},
		{
			nome:      "cartão de combustível sem espaços",
			reg:       plataforma.Registro{Plataforma: plataforma.CartaoCombustivel, ReferenciaID: "700120023003"},
			motorista: "m2", regra: RegraChaveIntegracao,
		},
		{
			nome:      "chave de portagem",
			reg:       plataforma.Registro{Plataforma: plataforma.Portagem, ReferenciaID: "vv-555"},
			motorista: "m2", regra: RegraChaveIntegracao,
		},
		{
			nome:      "matrícula pelo rótulo",
			reg:       plataforma.Registro{Plataforma: plataforma.Portagem, ReferenciaID: "X9", ReferenciaRotulo: "12 xy 34"},
			motorista: "m2", regra: RegraMatricula,
		},
		{
			nome:      "nome aproximado com acentos",
			reg:       plataforma.Registro{Plataforma: plataforma.RideB, ReferenciaID: "outro@mail.pt", ReferenciaRotulo: "MARIA C."},
			motorista: "m2", regra: RegraNome,
		},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			got, err := Resolver(c.reg, motoristasBase())
			require.NoError(t, err)
			assert.Equal(t, c.motorista, got.MotoristaID)
			assert.Equal(t, c.regra, got.Regra)
			assert.Equal(t, c.regra == RegraNome, got.BaixaConfianca())
		})
	}
}

func TestResolverMatriculaSoEmPortagem(t *testing.T) {
	reg := plataforma.Registro{Plataforma: plataforma.RideA, ReferenciaID: "zzz", ReferenciaRotulo: "12-XY-34"}
	_, err := Resolver(reg, motoristasBase())
	assert.ErrorIs(t, err, ErrNaoResolvido)
}

func TestResolverTokenCurtoNaoCasa(t *testing.T) {
	reg := plataforma.Registro{Plataforma: plataforma.RideA, ReferenciaID: "zzz", ReferenciaRotulo: "Al"}
	_, err := Resolver(reg, motoristasBase())
	assert.ErrorIs(t, err, ErrNaoResolvido)
}

func TestResolverMatriculaDesconhecida(t *testing.T) {
	reg := plataforma.Registro{Plataforma: plataforma.Portagem, ReferenciaID: "GP798SH", ReferenciaRotulo: "GP798SH"}
	_, err := Resolver(reg, motoristasBase())
	assert.ErrorIs(t, err, ErrNaoResolvido)
}

func TestResolverNomePrefereNomeExato(t *testing.T) {
	motoristas := []motorista.Motorista{
		{ID: "a1", Nome: "Ana Maria Costa", Ativo: true},
		{ID: "b2", Nome: "Maria Silva", Ativo: true},
	}
	reg := plataforma.Registro{Plataforma: plataforma.RideB, ReferenciaID: "x@mail.pt", ReferenciaRotulo: "MARIA  SÍLVA"}

	got, err := Resolver(reg, motoristas)
	require.NoError(t, err)
	assert.Equal(t, "b2", got.MotoristaID)
	assert.Equal(t, RegraNome, got.Regra)
}

func TestResolverNomeAmbiguoNaoResolve(t *testing.T) {
	motoristas := []motorista.Motorista{
		{ID: "a1", Nome: "Ana Maria Costa", Ativo: true},
		{ID: "b2", Nome: "Maria Silva", Ativo: true},
	}
	reg := plataforma.Registro{Plataforma: plataforma.RideB, ReferenciaID: "x@mail.pt", ReferenciaRotulo: "Maria"}
	_, err := Resolver(reg, motoristas)
	assert.ErrorIs(t, err, ErrAmbiguo)
	assert.ErrorIs(t, err, ErrNaoResolvido)

	// nomes completos repetidos também não decidem
	motoristas = append(motoristas, motorista.Motorista{ID: "c3", Nome: "Maria Silva", Ativo: true})
	reg.ReferenciaRotulo = "Maria Silva"
	_, err = Resolver(reg, motoristas)
	assert.ErrorIs(t, err, ErrNaoResolvido)
}

func TestDobrar(t *testing.T) {
	assert.Equal(t, "joao conceicao", dobrar("  JOÃO   Conceição "))
	assert.Equal(t, "GP798SH", normalizarMatricula("gp-79 8sh"))
}
