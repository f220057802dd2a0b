// internal/utils/utils.go
package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Validador compartilhado pelos handlers.
var Validador = validator.New()

// ResponderJSON escreve v com o status informado.
func ResponderJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// SemanaDaRota lê e valida {semana}; escreve 400 e devolve false se inválida.
func SemanaDaRota(w http.ResponseWriter, r *http.Request) (semana.ID, bool) {
	s, err := semana.Parse(mux.Vars(r)["semana"])
	if err != nil {
		http.Error(w, "Semana inválida", http.StatusBadRequest)
		return "", false
	}
	return s, true
}

// Decodificar lê o JSON do corpo e valida as tags `validate`.
func Decodificar(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return false
	}
	if err := Validador.Struct(dst); err != nil {
		http.Error(w, "Dados inválidos: "+err.Error(), http.StatusUnprocessableEntity)
		return false
	}
	return true
}

// DecodificarOpcional é Decodificar para corpos facultativos: corpo vazio, inclusive
// chunked sem Content-Length, devolve presente=false sem erro.
func DecodificarOpcional(w http.ResponseWriter, r *http.Request, dst interface{}) (presente, ok bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return false, true
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return false, true
		}
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return false, false
	}
	if err := Validador.Struct(dst); err != nil {
		http.Error(w, "Dados inválidos: "+err.Error(), http.StatusUnprocessableEntity)
		return false, false
	}
	return true, true
}
