package semana

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	casos := []struct {
		entrada string
		want    ID
		invalid bool
	}{
		{entrada: "2025-W40", want: "2025-W40"},
		{entrada: " 2025-W01 ", want: "2025-W01"},
		{entrada: "2020-W53", want: "2020-W53"},
		{entrada: "2021-W53", invalid: true},
		{entrada: "2025-W00", invalid: true},
		{entrada: "2025-W54", invalid: true},
		{entrada: "2025-40", invalid: true},
		{entrada: "", invalid: true},
		{entrada: "25-W10", invalid: true},
	}
	for _, c := range casos {
		t.Run(c.entrada, func(t *testing.T) {
			got, err := Parse(c.entrada)
			if c.invalid {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSemanaInvalida))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestLimites(t *testing.T) {
	s := ID("2025-W40")
	assert.Equal(t, time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), s.Inicio())
	fim := s.Fim()
	assert.Equal(t, time.Sunday, fim.Weekday())
	assert.Equal(t, time.Date(2025, 10, 5, 23, 59, 59, 999999999, time.UTC), fim)

	// semana 1 de 2026 começa em 2025
	assert.Equal(t, time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC), ID("2026-W01").Inicio())
}

func TestDaData(t *testing.T) {
	assert.Equal(t, ID("2025-W40"), DaData(time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, ID("2026-W01"), DaData(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestInvalidoSemLimites(t *testing.T) {
	assert.True(t, ID("x").Inicio().IsZero())
	assert.True(t, ID("x").Fim().IsZero())
}
