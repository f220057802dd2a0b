package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type corpoOpcional struct {
	Nota string `json:"nota" validate:"max=10"`
}

func TestDecodificarOpcional(t *testing.T) {
	casos := []struct {
		nome     string
		corpo    string
		semCorpo bool
		presente bool
		ok       bool
		status   int
	}{
		{nome: "sem corpo", semCorpo: true, ok: true, status: http.StatusOK},
		{nome: "corpo vazio chunked", corpo: "", ok: true, status: http.StatusOK},
		{nome: "chunked com json", corpo: `{"nota":"pix"}`, presente: true, ok: true, status: http.StatusOK},
		{nome: "json mal formado", corpo: `{"nota":`, status: http.StatusBadRequest},
		{nome: "falha de validação", corpo: `{"nota":"transferência bancária"}`, status: http.StatusUnprocessableEntity},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if !c.semCorpo {
				req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(c.corpo))
				req.ContentLength = -1
			}
			rec := httptest.NewRecorder()
			var dst corpoOpcional

			presente, ok := DecodificarOpcional(rec, req, &dst)
			assert.Equal(t, c.presente, presente)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.status, rec.Code)
			if c.presente {
				assert.Equal(t, "pix", dst.Nota)
			}
		})
	}
}
