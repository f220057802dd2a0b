package memoria

import (
	"context"
	"sort"

	"github.com/KromaEnergia/api-repasses/internal/extrato"
	"github.com/KromaEnergia/api-repasses/internal/pagamento"
	"github.com/KromaEnergia/api-repasses/internal/semana"
)

type Pagamentos struct{ b *Banco }

var _ pagamento.Store = (*Pagamentos)(nil)

// Criar aplica a mesma unicidade do índice parcial: um pagamento ativo por registro.
func (s *Pagamentos) Criar(ctx context.Context, p *pagamento.Pagamento) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	for _, outro := range s.b.d.pagamentos {
		if outro.RegistroID == p.RegistroID && outro.Ativo() {
			return pagamento.ErrJaPago
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.b.agora()
	}
	s.b.d.pagamentos[p.ID] = clonarPagamento(*p)
	return nil
}

func (s *Pagamentos) BuscarPorID(ctx context.Context, id string) (*pagamento.Pagamento, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	p, ok := s.b.d.pagamentos[id]
	if !ok {
		return nil, pagamento.ErrNaoEncontrado
	}
	c := clonarPagamento(p)
	return &c, nil
}

func (s *Pagamentos) listar(f func(pagamento.Pagamento) bool) []pagamento.Pagamento {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	out := []pagamento.Pagamento{}
	for _, p := range s.b.d.pagamentos {
		if f(p) {
			out = append(out, clonarPagamento(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Pagamentos) BuscarAtivoPorRegistro(ctx context.Context, registroID string) (*pagamento.Pagamento, error) {
	list := s.listar(func(p pagamento.Pagamento) bool { return p.RegistroID == registroID && p.Ativo() })
	if len(list) == 0 {
		return nil, pagamento.ErrNaoEncontrado
	}
	return &list[0], nil
}

func (s *Pagamentos) ListarAtivos(ctx context.Context) ([]pagamento.Pagamento, error) {
	return s.listar(func(p pagamento.Pagamento) bool { return p.Ativo() }), nil
}

func (s *Pagamentos) ListarAtivosPorFinanciamento(ctx context.Context, financiamentoID string) ([]pagamento.Pagamento, error) {
	return s.listar(func(p pagamento.Pagamento) bool {
		if !p.Ativo() {
			return false
		}
		for _, ap := range p.FinanciamentosProcessados {
			if ap.FinanciamentoID == financiamentoID && ap.ParcelaPaga {
				return true
			}
		}
		return false
	}), nil
}

func (s *Pagamentos) ListarPorSemana(ctx context.Context, sem semana.ID) ([]pagamento.Pagamento, error) {
	return s.listar(func(p pagamento.Pagamento) bool { return p.SemanaID == string(sem) }), nil
}

func (s *Pagamentos) Salvar(ctx context.Context, p *pagamento.Pagamento) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if _, ok := s.b.d.pagamentos[p.ID]; !ok {
		return pagamento.ErrNaoEncontrado
	}
	s.b.d.pagamentos[p.ID] = clonarPagamento(*p)
	return nil
}

type Estados struct{ b *Banco }

var _ extrato.EstadoStore = (*Estados)(nil)

func (s *Estados) BuscarEstado(ctx context.Context, id string) (*extrato.EstadoRegistro, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	e, ok := s.b.d.estados[id]
	if !ok {
		return nil, extrato.ErrEstadoNaoEncontrado
	}
	c := clonarEstado(e)
	return &c, nil
}

func (s *Estados) SalvarEstado(ctx context.Context, e *extrato.EstadoRegistro) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	e.UpdatedAt = s.b.agora()
	s.b.d.estados[e.ID] = clonarEstado(*e)
	return nil
}

func (s *Estados) ListarEstados(ctx context.Context) ([]extrato.EstadoRegistro, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	out := make([]extrato.EstadoRegistro, 0, len(s.b.d.estados))
	for _, e := range s.b.d.estados {
		out = append(out, clonarEstado(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
