// internal/logging/logging.go
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New monta o logger do processo. formato "console" usa a saída legível de desenvolvimento.
func New(nivel, formato string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(nivel)
	if err != nil {
		return nil, fmt.Errorf("nível de log inválido %q: %w", nivel, err)
	}
	cfg := zap.NewProductionConfig()
	if formato == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// OuNop devolve l, ou um logger mudo quando l é nil.
func OuNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
