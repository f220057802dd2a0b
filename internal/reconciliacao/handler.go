package reconciliacao

import (
	"errors"
	"net/http"

	"github.com/KromaEnergia/api-repasses/internal/lote"
	"github.com/KromaEnergia/api-repasses/internal/utils"
)

type Handler struct {
	Reconciliador *Reconciliador
}

func NewHandler(r *Reconciliador) *Handler {
	return &Handler{Reconciliador: r}
}

// POST /reconciliacao
func (h *Handler) Executar(w http.ResponseWriter, r *http.Request) {
	rel, err := h.Reconciliador.Executar(r.Context())
	switch {
	case err == nil:
		utils.ResponderJSON(w, http.StatusOK, rel)
	case errors.Is(err, lote.ErrFalhaParcial):
		// relatório parcial: falhas listadas no lote
		utils.ResponderJSON(w, http.StatusMultiStatus, rel)
	default:
		http.Error(w, "Erro ao executar reconciliação", http.StatusInternalServerError)
	}
}
