package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var segredo = []byte("segredo-de-teste")

func servidor() http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UsuarioID(r.Context())
		w.Header().Set("X-Usuario", strconv.FormatUint(uint64(id), 10))
		w.WriteHeader(http.StatusOK)
	})
	return MiddlewareAutenticacao(segredo)(RequireAdmin(ok))
}

func requisicao(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/pagamentos", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	servidor().ServeHTTP(rec, req)
	return rec
}

func TestValidarToken(t *testing.T) {
	tok, err := GerarToken(segredo, 7, true, time.Hour)
	require.NoError(t, err)

	c, err := ValidarToken(segredo, tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), c.UserID)
	assert.True(t, c.IsAdmin)

	_, err = ValidarToken([]byte("outro"), tok)
	assert.Error(t, err)

	expirado, err := GerarToken(segredo, 7, true, -time.Minute)
	require.NoError(t, err)
	_, err = ValidarToken(segredo, expirado)
	assert.Error(t, err)

	_, err = GerarToken(nil, 1, false, time.Hour)
	assert.Error(t, err)
}

func TestRecusaOutroAlgoritmo(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		UserID:           1,
		IsAdmin:          true,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(segredo)
	require.NoError(t, err)
	_, err = ValidarToken(segredo, tok)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	admin, err := GerarToken(segredo, 5, true, time.Hour)
	require.NoError(t, err)
	operador, err := GerarToken(segredo, 6, false, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, requisicao(t, "").Code)
	assert.Equal(t, http.StatusUnauthorized, requisicao(t, "lixo").Code)
	assert.Equal(t, http.StatusForbidden, requisicao(t, operador).Code)

	rec := requisicao(t, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-Usuario"))
}

func TestPreflightPassaSemToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/pagamentos", nil)
	rec := httptest.NewRecorder()
	chamado := false
	MiddlewareAutenticacao(segredo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chamado = true
	})).ServeHTTP(rec, req)
	assert.True(t, chamado)
}
