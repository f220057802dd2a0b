// internal/lote/lote.go
package lote

import (
	"errors"
	"fmt"
)

// ErrFalhaParcial marca um lote em que pelo menos um item falhou.
var ErrFalhaParcial = errors.New("falha parcial no lote")

// Falha guarda o erro de um item; o lote segue para o próximo.
type Falha struct {
	Item   string `json:"item"`
	Motivo string `json:"motivo"`
	Err    error  `json:"-"`
}

// Resultado acumula itens processados e falhas de uma execução em lote.
type Resultado struct {
	Processados int     `json:"processados"`
	Falhas      []Falha `json:"falhas"`
}

func (r *Resultado) Sucesso() {
	r.Processados++
}

func (r *Resultado) Falhou(item string, err error) {
	r.Falhas = append(r.Falhas, Falha{Item: item, Motivo: err.Error(), Err: err})
}

// Ok indica que nenhum item falhou.
func (r Resultado) Ok() bool {
	return len(r.Falhas) == 0
}

// Err devolve nil ou ErrFalhaParcial junto com os erros de cada item.
func (r Resultado) Err() error {
	if r.Ok() {
		return nil
	}
	errs := make([]error, 0, len(r.Falhas)+1)
	errs = append(errs, ErrFalhaParcial)
	for _, f := range r.Falhas {
		errs = append(errs, fmt.Errorf("%s: %w", f.Item, f.Err))
	}
	return errors.Join(errs...)
}
