package memoria

import (
	"context"

	"github.com/KromaEnergia/api-repasses/internal/fontes"
	"github.com/KromaEnergia/api-repasses/internal/semana"
)

type Fontes struct{ b *Banco }

var _ fontes.Store = (*Fontes)(nil)

func (s *Fontes) Abrir(ctx context.Context, f *fontes.FontesSemana) (bool, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if _, ok := s.b.d.fontes[f.SemanaID]; ok {
		return false, nil
	}
	agora := s.b.agora()
	f.CreatedAt, f.UpdatedAt = agora, agora
	s.b.d.fontes[f.SemanaID] = clonarFontes(*f)
	return true, nil
}

func (s *Fontes) Buscar(ctx context.Context, sem semana.ID) (*fontes.FontesSemana, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	f, ok := s.b.d.fontes[string(sem)]
	if !ok {
		return nil, fontes.ErrNaoEncontrada
	}
	c := clonarFontes(f)
	return &c, nil
}

func (s *Fontes) Salvar(ctx context.Context, f *fontes.FontesSemana) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	f.UpdatedAt = s.b.agora()
	s.b.d.fontes[f.SemanaID] = clonarFontes(*f)
	return nil
}
