package financiamento

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

// GET /motoristas/{id}/financiamentos
func (h *Handler) ListarPorMotorista(w http.ResponseWriter, r *http.Request) {
	list, err := h.Servico.ListarPorMotorista(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Erro ao buscar financiamentos", http.StatusInternalServerError)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, list)
}

// POST /financiamentos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var in NovoFinanciamento
	if !utils.Decodificar(w, r, &in) {
		return
	}
	f, err := h.Servico.Criar(r.Context(), in)
	switch {
	case errors.Is(err, motorista.ErrNaoEncontrado):
		http.Error(w, "Motorista não encontrado", http.StatusNotFound)
	case errors.Is(err, ErrDadosInvalidos):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case err != nil:
		http.Error(w, "Erro ao criar financiamento", http.StatusInternalServerError)
	default:
		utils.ResponderJSON(w, http.StatusCreated, f)
	}
}

// POST /financiamentos/{fid}/conclusao
func (h *Handler) Concluir(w http.ResponseWriter, r *http.Request) {
	f, err := h.Servico.Concluir(r.Context(), mux.Vars(r)["fid"])
	switch {
	case errors.Is(err, ErrNaoEncontrado):
		http.Error(w, "Financiamento não encontrado", http.StatusNotFound)
	case errors.Is(err, ErrSemPrazo):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		http.Error(w, "Erro ao concluir financiamento", http.StatusInternalServerError)
	default:
		utils.ResponderJSON(w, http.StatusOK, f)
	}
}
