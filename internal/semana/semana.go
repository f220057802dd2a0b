// internal/semana/semana.go
package semana

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// ErrSemanaInvalida indica um identificador de semana mal formado.
var ErrSemanaInvalida = errors.New("semana inválida")

// ID é o identificador ISO 8601 de uma semana, ex.: "2025-W40".
type ID string

var formato = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// calendario fixa segunda-feira como início de semana, em UTC.
var calendario = &now.Config{WeekStartDay: time.Monday, TimeLocation: time.UTC}

// Parse valida e normaliza um identificador de semana.
func Parse(s string) (ID, error) {
	ano, num, err := componentes(s)
	if err != nil {
		return "", err
	}
	return ID(fmt.Sprintf("%04d-W%02d", ano, num)), nil
}

// DaData devolve a semana ISO que contém t.
func DaData(t time.Time) ID {
	ano, num := t.UTC().ISOWeek()
	return ID(fmt.Sprintf("%04d-W%02d", ano, num))
}

func componentes(s string) (int, int, error) {
	m := formato.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrSemanaInvalida, s)
	}
	ano, _ := strconv.Atoi(m[1])
	num, _ := strconv.Atoi(m[2])
	if num < 1 || num > 53 {
		return 0, 0, fmt.Errorf("%w: %q", ErrSemanaInvalida, s)
	}
	// 53 só existe em alguns anos ISO
	if a, w := segunda(ano, num).ISOWeek(); a != ano || w != num {
		return 0, 0, fmt.Errorf("%w: %q não existe", ErrSemanaInvalida, s)
	}
	return ano, num, nil
}

// segunda calcula a segunda-feira da semana; 4 de janeiro está sempre na semana 1.
func segunda(ano, num int) time.Time {
	jan4 := time.Date(ano, time.January, 4, 0, 0, 0, 0, time.UTC)
	return calendario.With(jan4).BeginningOfWeek().AddDate(0, 0, (num-1)*7)
}

// Inicio devolve segunda-feira 00:00 UTC. Zero se o ID for inválido.
func (s ID) Inicio() time.Time {
	ano, num, err := componentes(string(s))
	if err != nil {
		return time.Time{}
	}
	return segunda(ano, num)
}

// Fim devolve o último instante de domingo, em UTC.
func (s ID) Fim() time.Time {
	inicio := s.Inicio()
	if inicio.IsZero() {
		return inicio
	}
	return calendario.With(inicio).EndOfWeek()
}

func (s ID) String() string { return string(s) }
