package exportacao

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/KromaEnergia/api-repasses/internal/pagamento"
	"github.com/KromaEnergia/api-repasses/internal/utils"
)

type Handler struct {
	Store pagamento.Store
}

func NewHandler(p pagamento.Store) *Handler {
	return &Handler{Store: p}
}

// GET /semanas/{semana}/pagamentos/exportacao
func (h *Handler) Pagamentos(w http.ResponseWriter, r *http.Request) {
	sem, ok := utils.SemanaDaRota(w, r)
	if !ok {
		return
	}
	pags, err := h.Store.ListarPorSemana(r.Context(), sem)
	if err != nil {
		http.Error(w, "Erro ao buscar pagamentos", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := PagamentosXLSX(&buf, pags); err != nil {
		http.Error(w, "Erro ao gerar planilha", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="pagamentos-%s.xlsx"`, sem))
	_, _ = w.Write(buf.Bytes())
}
