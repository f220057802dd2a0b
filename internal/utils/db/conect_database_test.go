package db

import (
	"testing"

	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	app := config.App{DBHost: "db", DBPorta: "5433", DBNome: "repasses", DBUsuario: "u", DBSenha: "s", DBSemSSL: true}
	dsn, err := DSN(app)
	require.NoError(t, err)
	assert.Equal(t, "host=db user=u password=s dbname=repasses port=5433 sslmode=disable", dsn)

	app.DBSemSSL = false
	dsn, err = DSN(app)
	require.NoError(t, err)
	assert.NotContains(t, dsn, "sslmode")

	_, err = DSN(config.App{DBHost: "db"})
	assert.Error(t, err)
}
