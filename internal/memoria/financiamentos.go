package memoria

import (
	"context"
	"sort"

	"github.com/KromaEnergia/api-repasses/internal/financiamento"
)

type Financiamentos struct{ b *Banco }

var _ financiamento.Store = (*Financiamentos)(nil)

func (s *Financiamentos) Criar(ctx context.Context, f *financiamento.Financiamento) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	agora := s.b.agora()
	f.CreatedAt, f.UpdatedAt = agora, agora
	s.b.d.financiamentos[f.ID] = f.Copia()
	return nil
}

func (s *Financiamentos) BuscarPorID(ctx context.Context, id string) (*financiamento.Financiamento, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	f, ok := s.b.d.financiamentos[id]
	if !ok {
		return nil, financiamento.ErrNaoEncontrado
	}
	c := f.Copia()
	return &c, nil
}

func (s *Financiamentos) listar(f func(financiamento.Financiamento) bool) []financiamento.Financiamento {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	out := []financiamento.Financiamento{}
	for _, v := range s.b.d.financiamentos {
		if f(v) {
			out = append(out, v.Copia())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DataInicio.Equal(out[j].DataInicio) {
			return out[i].DataInicio.Before(out[j].DataInicio)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Financiamentos) ListarPorMotorista(ctx context.Context, motoristaID string) ([]financiamento.Financiamento, error) {
	return s.listar(func(f financiamento.Financiamento) bool { return f.MotoristaID == motoristaID }), nil
}

func (s *Financiamentos) ListarAtivosPorMotorista(ctx context.Context, motoristaID string) ([]financiamento.Financiamento, error) {
	return s.listar(func(f financiamento.Financiamento) bool { return f.MotoristaID == motoristaID && f.Ativo() }), nil
}

func (s *Financiamentos) ListarPagina(ctx context.Context, aposID string, limite int) ([]financiamento.Financiamento, error) {
	out := s.listar(func(f financiamento.Financiamento) bool { return f.ID > aposID })
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limite {
		out = out[:limite]
	}
	return out, nil
}

func (s *Financiamentos) Salvar(ctx context.Context, f *financiamento.Financiamento) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	f.UpdatedAt = s.b.agora()
	s.b.d.financiamentos[f.ID] = f.Copia()
	return nil
}
