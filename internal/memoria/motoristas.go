package memoria

import (
	"context"
	"sort"

	"github.com/KromaEnergia/api-repasses/internal/motorista"
)

type Motoristas struct{ b *Banco }

var _ motorista.Store = (*Motoristas)(nil)

func (s *Motoristas) ListarTodos(ctx context.Context) ([]motorista.Motorista, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	out := make([]motorista.Motorista, 0, len(s.b.d.motoristas))
	for _, m := range s.b.d.motoristas {
		out = append(out, clonarMotorista(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Motoristas) BuscarPorID(ctx context.Context, id string) (*motorista.Motorista, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	m, ok := s.b.d.motoristas[id]
	if !ok {
		return nil, motorista.ErrNaoEncontrado
	}
	c := clonarMotorista(m)
	return &c, nil
}

func (s *Motoristas) ListarRecrutados(ctx context.Context, recrutadorID string) ([]motorista.Motorista, error) {
	todos, err := s.ListarTodos(ctx)
	if err != nil {
		return nil, err
	}
	out := todos[:0]
	for _, m := range todos {
		if m.RecrutadoPor != nil && *m.RecrutadoPor == recrutadorID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Motoristas) DecrementarIsencao(ctx context.Context, id string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	m, ok := s.b.d.motoristas[id]
	if !ok || m.SemanasIsencao <= 0 {
		return nil
	}
	m.SemanasIsencao--
	m.UpdatedAt = s.b.agora()
	s.b.d.motoristas[id] = m
	return nil
}

func (s *Motoristas) Salvar(ctx context.Context, m *motorista.Motorista) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	agora := s.b.agora()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = agora
	}
	m.UpdatedAt = agora
	s.b.d.motoristas[m.ID] = clonarMotorista(*m)
	return nil
}
