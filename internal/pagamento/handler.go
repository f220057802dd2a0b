package pagamento

import (
	"errors"
	"net/http"

	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/utils"
	"github.com/gorilla/mux"
)

type Handler struct {
	Servico     *Servico
	Processador *Processador
}

func NewHandler(s *Servico, p *Processador) *Handler {
	return &Handler{Servico: s, Processador: p}
}

type CancelamentoDTO struct {
	Motivo string `json:"motivo" validate:"required"`
}

// GET /motoristas/{id}/semanas/{semana}/extrato
func (h *Handler) Extrato(w http.ResponseWriter, r *http.Request) {
	sem, ok := utils.SemanaDaRota(w, r)
	if !ok {
		return
	}
	v, err := h.Servico.Extrato(r.Context(), mux.Vars(r)["id"], sem)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, v)
}

// POST /motoristas/{id}/semanas/{semana}/pagamento
func (h *Handler) Pagar(w http.ResponseWriter, r *http.Request) {
	sem, ok := utils.SemanaDaRota(w, r)
	if !ok {
		return
	}
	var comp *Comprovante
	var corpo Comprovante
	presente, ok := utils.DecodificarOpcional(w, r, &corpo)
	if !ok {
		return
	}
	if presente {
		comp = &corpo
	}
	pag, err := h.Processador.Pagar(r.Context(), mux.Vars(r)["id"], sem, comp)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, pag)
}

// PATCH /pagamentos/{pid}/comprovante
func (h *Handler) AnexarComprovante(w http.ResponseWriter, r *http.Request) {
	var comp Comprovante
	if !utils.Decodificar(w, r, &comp) {
		return
	}
	pag, err := h.Processador.AnexarComprovante(r.Context(), mux.Vars(r)["pid"], comp)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, pag)
}

// POST /pagamentos/{pid}/cancelamento
func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	var in CancelamentoDTO
	if !utils.Decodificar(w, r, &in) {
		return
	}
	pag, err := h.Processador.Cancelar(r.Context(), mux.Vars(r)["pid"], in.Motivo)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, pag)
}

// GET /pagamentos/{pid}/reproducao
func (h *Handler) Reproduzir(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Servico.Reproduzir(r.Context(), mux.Vars(r)["pid"])
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, rep)
}

func responderErro(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrJaPago):
		http.Error(w, "Motorista já pago nesta semana", http.StatusConflict)
	case errors.Is(err, ErrProjecaoDesatualizada):
		http.Error(w, "Dados mudaram durante o pagamento; tente novamente", http.StatusConflict)
	case errors.Is(err, ErrCancelado):
		http.Error(w, "Pagamento cancelado", http.StatusConflict)
	case errors.Is(err, ErrNaoEncontrado):
		http.Error(w, "Pagamento não encontrado", http.StatusNotFound)
	case errors.Is(err, motorista.ErrNaoEncontrado):
		http.Error(w, "Motorista não encontrado", http.StatusNotFound)
	case errors.Is(err, financiamento.ErrNaoEncontrado):
		http.Error(w, "Financiamento não encontrado", http.StatusNotFound)
	default:
		http.Error(w, "Erro ao processar pagamento", http.StatusInternalServerError)
	}
}
