package identificacao

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/utils"
	"github.com/gorilla/mux"
)

// Handler expõe a identificação e a fila de não mapeados.
type Handler struct {
	Servico *Servico
}

func NewHandler(s *Servico) *Handler {
	return &Handler{Servico: s}
}

type MapearDTO struct {
	MotoristaID string `json:"motoristaId" validate:"required"`
}

// POST /semanas/{semana}/identificacao
func (h *Handler) Resolver(w http.ResponseWriter, r *http.Request) {
	sem, ok := utils.SemanaDaRota(w, r)
	if !ok {
		return
	}
	rel, err := h.Servico.ResolverSemana(r.Context(), sem)
	if err != nil {
		http.Error(w, "Erro ao identificar registros", http.StatusInternalServerError)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, rel)
}

// GET /semanas/{semana}/nao-mapeados
func (h *Handler) NaoMapeados(w http.ResponseWriter, r *http.Request) {
	sem, ok := utils.SemanaDaRota(w, r)
	if !ok {
		return
	}
	list, err := h.Servico.NaoMapeados(r.Context(), sem)
	if err != nil {
		http.Error(w, "Erro ao buscar registros não mapeados", http.StatusInternalServerError)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, list)
}

// PUT /registros-plataforma/{id}/motorista
func (h *Handler) Mapear(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "ID de registro inválido", http.StatusBadRequest)
		return
	}
	var in MapearDTO
	if !utils.Decodificar(w, r, &in) {
		return
	}
	reg, err := h.Servico.Mapear(r.Context(), uint(id), in.MotoristaID)
	switch {
	case errors.Is(err, plataforma.ErrNaoEncontrado), errors.Is(err, motorista.ErrNaoEncontrado):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrJaMapeado):
		http.Error(w, "Registro já associado a outro motorista; limpe antes de remapear", http.StatusConflict)
	case err != nil:
		http.Error(w, "Erro ao mapear registro", http.StatusInternalServerError)
	default:
		utils.ResponderJSON(w, http.StatusOK, reg)
	}
}

// DELETE /registros-plataforma/{id}/motorista
func (h *Handler) Limpar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "ID de registro inválido", http.StatusBadRequest)
		return
	}
	if err := h.Servico.Limpar(r.Context(), uint(id)); err != nil {
		if errors.Is(err, plataforma.ErrNaoEncontrado) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao limpar registro", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
