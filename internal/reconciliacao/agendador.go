// internal/reconciliacao/agendador.go
package reconciliacao

import (
	"context"
	"fmt"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/logging"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// timeoutExecucao limita uma execução agendada; a próxima recomeça do início.
const timeoutExecucao = 30 * time.Minute

// Agendador roda a reconciliação periodicamente, nunca duas ao mesmo tempo.
type Agendador struct {
	cron *cron.Cron
	rec  *Reconciliador
	log  *zap.Logger
}

func NovoAgendador(rec *Reconciliador, expressao string, loc *time.Location, log *zap.Logger) (*Agendador, error) {
	if loc == nil {
		loc = time.UTC
	}
	a := &Agendador{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		rec: rec,
		log: logging.OuNop(log),
	}
	if _, err := a.cron.AddFunc(expressao, a.executar); err != nil {
		return nil, fmt.Errorf("expressão cron inválida %q: %w", expressao, err)
	}
	return a, nil
}

func (a *Agendador) executar() {
	ctx, cancel := context.WithTimeout(context.Background(), timeoutExecucao)
	defer cancel()
	rel, err := a.rec.Executar(ctx)
	if err != nil {
		a.log.Error("reconciliação agendada terminou com erro", zap.Int("escritas", rel.Escritas), zap.Error(err))
		return
	}
	a.log.Info("reconciliação agendada", zap.Int("escritas", rel.Escritas), zap.Int("divergencias", len(rel.Divergencias)))
}

func (a *Agendador) Iniciar() { a.cron.Start() }

// Parar espera a execução em andamento terminar.
func (a *Agendador) Parar() context.Context { return a.cron.Stop() }
