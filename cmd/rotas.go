package main

import (
	"net/http"

	"github.com/KromaEnergia/api-repasses/internal/auth"
	"github.com/KromaEnergia/api-repasses/internal/comissao"
	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/exportacao"
	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/KromaEnergia/api-repasses/internal/fontes"
	"github.com/KromaEnergia/api-repasses/internal/identificacao"
	"github.com/KromaEnergia/api-repasses/internal/pagamento"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/reconciliacao"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// servicos é o grafo montado sobre um backend.
type servicos struct {
	Identificacao  *identificacao.Servico
	Fontes         *fontes.Servico
	Financiamentos *financiamento.Servico
	Comissao       *comissao.Servico
	Extrato        *pagamento.Servico
	Processador    *pagamento.Processador
	Reconciliador  *reconciliacao.Reconciliador
	Pagamentos     pagamento.Store
}

func montarServicos(b backend, cfg config.Financeiro, log *zap.Logger) servicos {
	ident := identificacao.NewServico(b.Registros, b.Motoristas, log.Named("identificacao"))
	motor := &comissao.Motor{
		Regras:     b.Comissoes,
		Motoristas: b.Motoristas,
		Ganhos:     plataforma.Ganhos{Store: b.Registros},
		Cfg:        cfg.Comissao,
	}
	proj := &pagamento.Projetor{
		Motoristas:     b.Motoristas,
		Registros:      b.Registros,
		Financiamentos: b.Financiamentos,
		Comissao:       motor,
		Cfg:            cfg,
	}
	return servicos{
		Identificacao:  ident,
		Fontes:         fontes.NewServico(b.Fontes, b.Registros, ident, log.Named("fontes")),
		Financiamentos: financiamento.NewServico(b.Financiamentos, b.Motoristas, log.Named("financiamento")),
		Comissao:       comissao.NewServico(b.Comissoes, motor, log.Named("comissao")),
		Extrato:        pagamento.NewServico(proj, b.Pagamentos),
		Processador:    pagamento.NewProcessador(proj, b.Pagamentos, b.Tx, cfg, log.Named("pagamento")),
		Reconciliador:  reconciliacao.NewReconciliador(b.Pagamentos, b.Financiamentos, b.Estados, b.Tx, log.Named("reconciliacao")),
		Pagamentos:     b.Pagamentos,
	}
}

func novoRouter(s servicos, segredo []byte) *mux.Router {
	fontesHandler := fontes.NewHandler(s.Fontes)
	identificacaoHandler := identificacao.NewHandler(s.Identificacao)
	financiamentoHandler := financiamento.NewHandler(s.Financiamentos)
	comissaoHandler := comissao.NewHandler(s.Comissao)
	pagamentoHandler := pagamento.NewHandler(s.Extrato, s.Processador)
	exportacaoHandler := exportacao.NewHandler(s.Pagamentos)
	reconciliacaoHandler := reconciliacao.NewHandler(s.Reconciliador)

	r := mux.NewRouter()
	r.Use(auth.MiddlewareAutenticacao(segredo))
	admin := func(h http.HandlerFunc) http.Handler { return auth.RequireAdmin(h) }

	// Rotas de semanas e fontes
	r.Handle("/semanas/{semana}", admin(fontesHandler.Abrir)).Methods("POST")
	r.HandleFunc("/semanas/{semana}/fontes", fontesHandler.Buscar).Methods("GET")
	r.Handle("/semanas/{semana}/plataformas/{plataforma}/importacao", admin(fontesHandler.Importar)).Methods("POST")
	r.Handle("/semanas/{semana}/plataformas/{plataforma}/status", admin(fontesHandler.Sobrescrever)).Methods("PUT")

	// Rotas de identificação
	r.Handle("/semanas/{semana}/identificacao", admin(identificacaoHandler.Resolver)).Methods("POST")
	r.HandleFunc("/semanas/{semana}/nao-mapeados", identificacaoHandler.NaoMapeados).Methods("GET")
	r.Handle("/registros-plataforma/{id}/motorista", admin(identificacaoHandler.Mapear)).Methods("PUT")
	r.Handle("/registros-plataforma/{id}/motorista", admin(identificacaoHandler.Limpar)).Methods("DELETE")

	// Rotas de financiamentos
	r.HandleFunc("/motoristas/{id}/financiamentos", financiamentoHandler.ListarPorMotorista).Methods("GET")
	r.Handle("/financiamentos", admin(financiamentoHandler.Criar)).Methods("POST")
	r.Handle("/financiamentos/{fid}/conclusao", admin(financiamentoHandler.Concluir)).Methods("POST")

	// Rotas de comissões
	r.HandleFunc("/motoristas/{id}/semanas/{semana}/comissao", comissaoHandler.Calcular).Methods("GET")
	r.Handle("/regras-comissao", admin(comissaoHandler.CriarRegra)).Methods("POST")
	r.Handle("/regras-comissao/{rid}/substituicao", admin(comissaoHandler.SubstituirRegra)).Methods("POST")
	r.Handle("/regras-comissao/{rid}/ativa", admin(comissaoHandler.AlterarAtiva)).Methods("PATCH")

	// Rotas de extrato e pagamentos
	r.HandleFunc("/motoristas/{id}/semanas/{semana}/extrato", pagamentoHandler.Extrato).Methods("GET")
	r.Handle("/motoristas/{id}/semanas/{semana}/pagamento", admin(pagamentoHandler.Pagar)).Methods("POST")
	r.Handle("/pagamentos/{pid}/comprovante", admin(pagamentoHandler.AnexarComprovante)).Methods("PATCH")
	r.Handle("/pagamentos/{pid}/cancelamento", admin(pagamentoHandler.Cancelar)).Methods("POST")
	r.HandleFunc("/pagamentos/{pid}/reproducao", pagamentoHandler.Reproduzir).Methods("GET")
	r.HandleFunc("/semanas/{semana}/pagamentos/exportacao", exportacaoHandler.Pagamentos).Methods("GET")

	// Reconciliação sob demanda
	r.Handle("/reconciliacao", admin(reconciliacaoHandler.Executar)).Methods("POST")

	return r
}
