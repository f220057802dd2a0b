package memoria

import (
	"context"
	"sort"

	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/semana"
)

type Registros struct{ b *Banco }

var _ plataforma.Store = (*Registros)(nil)

func (s *Registros) SubstituirSemana(ctx context.Context, sem semana.ID, p plataforma.Plataforma, regs []plataforma.Registro) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	for id, r := range s.b.d.registros {
		if r.SemanaID == string(sem) && r.Plataforma == p {
			delete(s.b.d.registros, id)
		}
	}
	agora := s.b.agora()
	for i := range regs {
		regs[i].ID = s.b.d.proxRegistro
		s.b.d.proxRegistro++
		regs[i].SemanaID = string(sem)
		regs[i].Plataforma = p
		regs[i].CreatedAt = agora
		regs[i].UpdatedAt = agora
		s.b.d.registros[regs[i].ID] = clonarRegistro(regs[i])
	}
	return nil
}

func (s *Registros) filtrar(f func(plataforma.Registro) bool) []plataforma.Registro {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	out := []plataforma.Registro{}
	for _, r := range s.b.d.registros {
		if f(r) {
			out = append(out, clonarRegistro(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Registros) ListarPorSemana(ctx context.Context, sem semana.ID) ([]plataforma.Registro, error) {
	return s.filtrar(func(r plataforma.Registro) bool { return r.SemanaID == string(sem) }), nil
}

func (s *Registros) ListarNaoMapeados(ctx context.Context, sem semana.ID) ([]plataforma.Registro, error) {
	out := s.filtrar(func(r plataforma.Registro) bool { return r.SemanaID == string(sem) && !r.Resolvido() })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Plataforma < out[j].Plataforma })
	return out, nil
}

func (s *Registros) ListarPorMotorista(ctx context.Context, sem semana.ID, motoristaID string) ([]plataforma.Registro, error) {
	return s.filtrar(func(r plataforma.Registro) bool {
		return r.SemanaID == string(sem) && r.Resolvido() && *r.MotoristaID == motoristaID
	}), nil
}

func (s *Registros) BuscarPorID(ctx context.Context, id uint) (*plataforma.Registro, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	r, ok := s.b.d.registros[id]
	if !ok {
		return nil, plataforma.ErrNaoEncontrado
	}
	c := clonarRegistro(r)
	return &c, nil
}

func (s *Registros) AtribuirMotorista(ctx context.Context, id uint, a plataforma.Atribuicao) (bool, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	r, ok := s.b.d.registros[id]
	if !ok || r.Resolvido() {
		return false, nil
	}
	mid := a.MotoristaID
	r.MotoristaID = &mid
	r.MotoristaNome = a.MotoristaNome
	r.RegraIdentificacao = a.Regra
	r.BaixaConfianca = a.BaixaConfianca
	r.UpdatedAt = s.b.agora()
	s.b.d.registros[id] = r
	return true, nil
}

func (s *Registros) LimparMotorista(ctx context.Context, id uint) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	r, ok := s.b.d.registros[id]
	if !ok {
		return plataforma.ErrNaoEncontrado
	}
	r.MotoristaID = nil
	r.MotoristaNome = ""
	r.RegraIdentificacao = ""
	r.BaixaConfianca = false
	r.UpdatedAt = s.b.agora()
	s.b.d.registros[id] = r
	return nil
}
