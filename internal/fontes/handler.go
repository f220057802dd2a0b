package fontes

import (
	"errors"
	"net/http"

	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/utils"
	"github.com/gorilla/mux"
)

type Handler struct {
	Servico *Servico
}

func NewHandler(s *Servico) *Handler {
	return &Handler{Servico: s}
}

// ImportacaoDTO traz as linhas já normalizadas pelo parser da plataforma.
type ImportacaoDTO struct {
	Origem Origem             `json:"origem" validate:"omitempty,oneof=auto manual"`
	Linhas []plataforma.Linha `json:"linhas" validate:"required"`
}

type StatusDTO struct {
	Status Status `json:"status" validate:"required,oneof=pending partial complete"`
	Motivo string `json:"motivo"`
}

// POST /semanas/{semana}
func (h *Handler) Abrir(w http.ResponseWriter, r *http.Request) {
	sem, ok := utils.SemanaDaRota(w, r)
	if !ok {
		return
	}
	f, criou, err := h.Servico.AbrirSemana(r.Context(), sem)
	if err != nil {
		http.Error(w, "Erro ao abrir semana", http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if criou {
		status = http.StatusCreated
	}
	utils.ResponderJSON(w, status, f)
}

// GET /semanas/{semana}/fontes
func (h *Handler) Buscar(w http.ResponseWriter, r *http.Request) {
	sem, ok := utils.SemanaDaRota(w, r)
	if !ok {
		return
	}
	f, err := h.Servico.Buscar(r.Context(), sem)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, f)
}

// POST /semanas/{semana}/plataformas/{plataforma}/importacao
func (h *Handler) Importar(w http.ResponseWriter, r *http.Request) {
	sem, ok := utils.SemanaDaRota(w, r)
	if !ok {
		return
	}
	p, err := plataforma.Parse(mux.Vars(r)["plataforma"])
	if err != nil {
		http.Error(w, "Plataforma inválida", http.StatusBadRequest)
		return
	}
	var in ImportacaoDTO
	if !utils.Decodificar(w, r, &in) {
		return
	}
	res, err := h.Servico.Importar(r.Context(), sem, p, in.Linhas, in.Origem)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, res)
}

// PUT /semanas/{semana}/plataformas/{plataforma}/status
func (h *Handler) Sobrescrever(w http.ResponseWriter, r *http.Request) {
	sem, ok := utils.SemanaDaRota(w, r)
	if !ok {
		return
	}
	p, err := plataforma.Parse(mux.Vars(r)["plataforma"])
	if err != nil {
		http.Error(w, "Plataforma inválida", http.StatusBadRequest)
		return
	}
	var in StatusDTO
	if !utils.Decodificar(w, r, &in) {
		return
	}
	f, err := h.Servico.Sobrescrever(r.Context(), sem, p, in.Status, in.Motivo)
	if err != nil {
		responderErro(w, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, f)
}

func responderErro(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNaoEncontrada) {
		http.Error(w, "Semana não aberta", http.StatusNotFound)
		return
	}
	http.Error(w, "Erro ao processar fontes da semana", http.StatusInternalServerError)
}
