package memoria

import (
	"context"
	"fmt"
	"sort"

	"github.com/KromaEnergia/api-repasses/internal/comissao"
)

type Comissoes struct{ b *Banco }

var _ comissao.Store = (*Comissoes)(nil)

func (s *Comissoes) ListarRegrasAtivas(ctx context.Context) ([]comissao.Regra, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	out := []comissao.Regra{}
	for _, r := range s.b.d.regras {
		if r.Ativa {
			out = append(out, clonarRegra(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tipo != out[j].Tipo {
			return out[i].Tipo < out[j].Tipo
		}
		if out[i].Nivel != out[j].Nivel {
			return out[i].Nivel < out[j].Nivel
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *Comissoes) BuscarRegra(ctx context.Context, id string) (*comissao.Regra, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	r, ok := s.b.d.regras[id]
	if !ok {
		return nil, comissao.ErrRegraNaoEncontrada
	}
	c := clonarRegra(r)
	return &c, nil
}

func (s *Comissoes) CriarRegra(ctx context.Context, r *comissao.Regra) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	s.criarRegra(r)
	return nil
}

func (s *Comissoes) criarRegra(r *comissao.Regra) {
	agora := s.b.agora()
	r.CreatedAt, r.UpdatedAt = agora, agora
	s.b.d.regras[r.ID] = clonarRegra(*r)
}

func (s *Comissoes) SalvarRegra(ctx context.Context, r *comissao.Regra) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	r.UpdatedAt = s.b.agora()
	s.b.d.regras[r.ID] = clonarRegra(*r)
	return nil
}

func (s *Comissoes) SubstituirRegra(ctx context.Context, antigaID string, nova *comissao.Regra) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	antiga, ok := s.b.d.regras[antigaID]
	if !ok {
		return comissao.ErrRegraNaoEncontrada
	}
	id := nova.ID
	antiga.Ativa = false
	antiga.SubstituidaPor = &id
	antiga.UpdatedAt = s.b.agora()
	s.b.d.regras[antigaID] = antiga
	s.criarRegra(nova)
	return nil
}

func (s *Comissoes) ListarBonusPendentes(ctx context.Context, motoristaID string) ([]comissao.BonusIndicacao, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	out := []comissao.BonusIndicacao{}
	for _, b := range s.b.d.bonus {
		if b.MotoristaID == motoristaID && b.Status == comissao.BonusPendente {
			out = append(out, clonarBonus(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Comissoes) CriarBonus(ctx context.Context, b *comissao.BonusIndicacao) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	agora := s.b.agora()
	b.CreatedAt, b.UpdatedAt = agora, agora
	s.b.d.bonus[b.ID] = clonarBonus(*b)
	return nil
}

func (s *Comissoes) MarcarBonusPagos(ctx context.Context, ids []string, pagamentoID string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	for _, id := range ids {
		if b, ok := s.b.d.bonus[id]; !ok || b.Status != comissao.BonusPendente {
			return fmt.Errorf("%w: %s", comissao.ErrBonusIndisponivel, id)
		}
	}
	agora := s.b.agora()
	for _, id := range ids {
		b := s.b.d.bonus[id]
		pid := pagamentoID
		b.Status = comissao.BonusPago
		b.PagamentoID = &pid
		b.UpdatedAt = agora
		s.b.d.bonus[id] = b
	}
	return nil
}

func (s *Comissoes) ReverterBonus(ctx context.Context, pagamentoID string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	agora := s.b.agora()
	for id, b := range s.b.d.bonus {
		if b.PagamentoID != nil && *b.PagamentoID == pagamentoID {
			b.Status = comissao.BonusPendente
			b.PagamentoID = nil
			b.UpdatedAt = agora
			s.b.d.bonus[id] = b
		}
	}
	return nil
}
