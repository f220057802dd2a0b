package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/logging"
	"github.com/KromaEnergia/api-repasses/internal/reconciliacao"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	app := config.CarregarAmbiente()
	if app.JWTSecret == "" {
		return errors.New("JWT_SECRET não definida")
	}

	logger, err := logging.New(app.LogNivel, app.LogFormato)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.CarregarFinanceiro(app.ArquivoFinanceiro)
	if err != nil {
		return err
	}

	b, err := abrirBackend(app)
	if err != nil {
		return err
	}
	svc := montarServicos(b, cfg, logger)

	loc, err := time.LoadLocation(app.FusoHorario)
	if err != nil {
		return fmt.Errorf("fuso horário inválido %q: %w", app.FusoHorario, err)
	}
	agendador, err := reconciliacao.NovoAgendador(svc.Reconciliador, app.CronReconciliacao, loc, logger.Named("agendador"))
	if err != nil {
		return err
	}
	agendador.Iniciar()

	c := cors.New(cors.Options{
		AllowedOrigins:   app.OrigensCORS,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	srv := &http.Server{
		Addr:              ":" + app.Porta,
		Handler:           c.Handler(novoRouter(svc, []byte(app.JWTSecret))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	erros := make(chan error, 1)
	go func() {
		logger.Info("servidor rodando", zap.String("porta", app.Porta), zap.String("backend", app.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			erros <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-erros:
		<-agendador.Parar().Done()
		return err
	case s := <-sigs:
		logger.Info("encerrando", zap.String("sinal", s.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("erro ao encerrar servidor", zap.Error(err))
	}
	<-agendador.Parar().Done()
	return nil
}
