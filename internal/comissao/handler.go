package comissao

import (
	"errors"
	"net/http"

	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/utils"
	"github.com/gorilla/mux"
)

type Handler struct {
	Servico *Servico
}

func NewHandler(s *Servico) *Handler {
	return &Handler{Servico: s}
}

type AtivaDTO struct {
	Ativa *bool `json:"ativa" validate:"required"`
}

// GET /motoristas/{id}/semanas/{semana}/comissao
func (h *Handler) Calcular(w http.ResponseWriter, r *http.Request) {
	sem, ok := utils.SemanaDaRota(w, r)
	if !ok {
		return
	}
	res, err := h.Servico.Motor.Calcular(r.Context(), mux.Vars(r)["id"], sem)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, res)
}

// POST /regras-comissao
func (h *Handler) CriarRegra(w http.ResponseWriter, r *http.Request) {
	var in NovaRegra
	if !utils.Decodificar(w, r, &in) {
		return
	}
	rg, err := h.Servico.CriarRegra(r.Context(), in)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, rg)
}

// POST /regras-comissao/{rid}/substituicao
func (h *Handler) SubstituirRegra(w http.ResponseWriter, r *http.Request) {
	var in NovaRegra
	if !utils.Decodificar(w, r, &in) {
		return
	}
	rg, err := h.Servico.SubstituirRegra(r.Context(), mux.Vars(r)["rid"], in)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, rg)
}

// PATCH /regras-comissao/{rid}/ativa
func (h *Handler) AlterarAtiva(w http.ResponseWriter, r *http.Request) {
	var in AtivaDTO
	if !utils.Decodificar(w, r, &in) {
		return
	}
	rg, err := h.Servico.AlterarAtiva(r.Context(), mux.Vars(r)["rid"], *in.Ativa)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, rg)
}

func responderErro(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRegraNaoEncontrada), errors.Is(err, motorista.ErrNaoEncontrado):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrRegraInvalida):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrRegraSubstituida):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "Erro ao processar comissão", http.StatusInternalServerError)
	}
}
