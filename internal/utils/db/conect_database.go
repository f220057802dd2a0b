package db

import (
	"errors"
	"fmt"

	"github.com/KromaEnergia/api-repasses/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN monta a string de conexão a partir do ambiente.
func DSN(app config.App) (string, error) {
	if app.DBUsuario == "" || app.DBSenha == "" {
		return "", errors.New("DB_USERNAME e DB_PASSWORD são obrigatórios")
	}
	var sslMode string
	if app.DBSemSSL {
		sslMode = " sslmode=disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s%s",
		app.DBHost, app.DBUsuario, app.DBSenha, app.DBNome, app.DBPorta, sslMode), nil
}

// ConnectDataBase abre o postgres; TranslateError faz violações de unicidade virarem gorm.ErrDuplicatedKey.
func ConnectDataBase(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar ao banco: %w", err)
	}
	return database, nil
}

func GetDB(app config.App) (*gorm.DB, error) {
	dsn, err := DSN(app)
	if err != nil {
		return nil, err
	}
	return ConnectDataBase(dsn)
}
