// internal/identificacao/resolver.go
package identificacao

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNaoResolvido indica que nenhuma regra associou o registro a um motorista.
var ErrNaoResolvido = errors.New("registro sem motorista correspondente")

// ErrAmbiguo: o rótulo casa com vários motoristas e nenhum tem o nome exato.
var ErrAmbiguo = fmt.Errorf("%w: mais de um motorista possível", ErrNaoResolvido)

// Regra identifica qual heurística associou o registro.
type Regra string

const (
	RegraChaveIntegracao Regra = "chave-integracao"
	RegraMatricula       Regra = "matricula"
	RegraNome            Regra = "nome-aproximado"
	RegraManual          Regra = "manual"
)

// tamanhoMinimoToken evita que iniciais ou partículas ("da", "j.") casem com qualquer nome.
const tamanhoMinimoToken = 3

// Correspondencia é o motorista encontrado para um registro.
type Correspondencia struct {
	MotoristaID   string `json:"motoristaId"`
	MotoristaNome string `json:"motoristaNome"`
	Regra         Regra  `json:"regra"`
}

// BaixaConfianca marca correspondências por nome, que vão para auditoria.
func (c Correspondencia) BaixaConfianca() bool {
	return c.Regra == RegraNome
}

type regra struct {
	nome   Regra
	aplica func(p plataforma.Plataforma) bool
	casa   func(reg plataforma.Registro, m motorista.Motorista) bool
	// escolher decide entre vários candidatos; nil fica com o primeiro.
	escolher func(reg plataforma.Registro, candidatos []motorista.Motorista) (motorista.Motorista, error)
}

// regras em ordem de prioridade; a primeira que casa vence.
var regras = []regra{
	{nome: RegraChaveIntegracao, casa: casaChave},
	{nome: RegraMatricula, aplica: func(p plataforma.Plataforma) bool { return p == plataforma.Portagem }, casa: casaMatricula},
	{nome: RegraNome, casa: func(reg plataforma.Registro, m motorista.Motorista) bool {
		return casaNome(reg.ReferenciaRotulo, m.Nome)
	}, escolher: escolherPorNome},
}

// Resolver aplica as regras ao registro contra a lista de motoristas.
func Resolver(reg plataforma.Registro, motoristas []motorista.Motorista) (Correspondencia, error) {
	for _, rg := range regras {
		if rg.aplica != nil && !rg.aplica(reg.Plataforma) {
			continue
		}
		var candidatos []motorista.Motorista
		for _, m := range motoristas {
			if rg.casa(reg, m) {
				candidatos = append(candidatos, m)
			}
		}
		if len(candidatos) == 0 {
			continue
		}
		m := candidatos[0]
		if len(candidatos) > 1 && rg.escolher != nil {
			var err error
			if m, err = rg.escolher(reg, candidatos); err != nil {
				return Correspondencia{}, err
			}
		}
		return Correspondencia{MotoristaID: m.ID, MotoristaNome: m.Nome, Regra: rg.nome}, nil
	}
	return Correspondencia{}, ErrNaoResolvido
}

// escolherPorNome fica com o único candidato de nome completo igual ao rótulo.
func escolherPorNome(reg plataforma.Registro, candidatos []motorista.Motorista) (motorista.Motorista, error) {
	rotulo := dobrar(reg.ReferenciaRotulo)
	var exatos []motorista.Motorista
	for _, m := range candidatos {
		if dobrar(m.Nome) == rotulo {
			exatos = append(exatos, m)
		}
	}
	if len(exatos) != 1 {
		return motorista.Motorista{}, ErrAmbiguo
	}
	return exatos[0], nil
}

func chavesDe(p plataforma.Plataforma, m motorista.Motorista) []string {
	switch p {
	case plataforma.RideA:
		return []string{m.UUIDRideA}
	case plataforma.RideB:
		return []string{m.EmailRideB}
	case plataforma.CartaoCombustivel:
		return []string{m.CartaoCombustivel}
	case plataforma.Portagem:
		return []string{m.ChavePortagem, m.Matricula}
	}
	return nil
}

func casaChave(reg plataforma.Registro, m motorista.Motorista) bool {
	ref := normalizarChave(reg.ReferenciaID)
	if ref == "" {
		return false
	}
	for _, chave := range chavesDe(reg.Plataforma, m) {
		if c := normalizarChave(chave); c != "" && c == ref {
			return true
		}
	}
	return false
}

func casaMatricula(reg plataforma.Registro, m motorista.Motorista) bool {
	rotulo := normalizarMatricula(reg.ReferenciaRotulo)
	return rotulo != "" && rotulo == normalizarMatricula(m.Matricula)
}

// casaNome: um dos textos contém o primeiro token do outro.
func casaNome(rotulo, nome string) bool {
	r, n := dobrar(rotulo), dobrar(nome)
	if r == "" || n == "" {
		return false
	}
	tr, tn := primeiroToken(r), primeiroToken(n)
	if len([]rune(tr)) >= tamanhoMinimoToken && strings.Contains(n, tr) {
		return true
	}
	return len([]rune(tn)) >= tamanhoMinimoToken && strings.Contains(r, tn)
}

// normalizarChave ignora caixa e qualquer espaço (cartões vêm como "1234 5678").
func normalizarChave(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// normalizarMatricula: maiúsculas, só letras e dígitos ("gp-79-8sh" → "GP798SH").
func normalizarMatricula(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dobrar remove acentos, passa para minúsculas e colapsa espaços.
func dobrar(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

func primeiroToken(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
