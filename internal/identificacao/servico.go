// internal/identificacao/servico.go
package identificacao

import (
	"context"
	"errors"
	"fmt"

	"github.com/KromaEnergia/api-repasses/internal/logging"
	"github.com/KromaEnergia/api-repasses/internal/lote"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"go.uber.org/zap"
)

// ErrJaMapeado: o registro tem outro motorista; é preciso limpar antes de remapear.
var ErrJaMapeado = errors.New("registro já associado a outro motorista")

// Servico executa a identificação em lote e o mapeamento manual.
type Servico struct {
	Registros  plataforma.Store
	Motoristas motorista.Store
	Log        *zap.Logger
}

func NewServico(registros plataforma.Store, motoristas motorista.Store, log *zap.Logger) *Servico {
	return &Servico{Registros: registros, Motoristas: motoristas, Log: logging.OuNop(log)}
}

// Relatorio resume uma execução de ResolverSemana.
type Relatorio struct {
	Semana         semana.ID             `json:"semana"`
	Resolvidos     int                   `json:"resolvidos"`
	JaResolvidos   int                   `json:"jaResolvidos"`
	BaixaConfianca int                   `json:"baixaConfianca"`
	NaoResolvidos  []plataforma.Registro `json:"naoResolvidos"`
	Lote           lote.Resultado        `json:"lote"`
}

// ResolverSemana preenche motoristas em registros ainda sem atribuição.
// Registros já resolvidos nunca são alterados; falhas de um registro não param o lote.
func (s *Servico) ResolverSemana(ctx context.Context, sem semana.ID) (Relatorio, error) {
	rel := Relatorio{Semana: sem, NaoResolvidos: []plataforma.Registro{}}

	motoristas, err := s.Motoristas.ListarTodos(ctx)
	if err != nil {
		return rel, fmt.Errorf("erro ao listar motoristas: %w", err)
	}
	regs, err := s.Registros.ListarPorSemana(ctx, sem)
	if err != nil {
		return rel, fmt.Errorf("erro ao listar registros da semana %s: %w", sem, err)
	}

	for _, reg := range regs {
		if err := ctx.Err(); err != nil {
			return rel, err
		}
		if reg.Resolvido() {
			rel.JaResolvidos++
			continue
		}

		c, err := Resolver(reg, motoristas)
		if errors.Is(err, ErrNaoResolvido) {
			rel.NaoResolvidos = append(rel.NaoResolvidos, reg)
			s.Log.Info("registro sem correspondência",
				zap.Uint("registro", reg.ID),
				zap.String("plataforma", string(reg.Plataforma)),
				zap.String("referencia", reg.ReferenciaID),
				zap.String("rotulo", reg.ReferenciaRotulo))
			continue
		}

		gravou, err := s.Registros.AtribuirMotorista(ctx, reg.ID, plataforma.Atribuicao{
			MotoristaID:    c.MotoristaID,
			MotoristaNome:  c.MotoristaNome,
			Regra:          string(c.Regra),
			BaixaConfianca: c.BaixaConfianca(),
		})
		if err != nil {
			rel.Lote.Falhou(fmt.Sprintf("registro %d", reg.ID), err)
			s.Log.Error("erro ao gravar identificação", zap.Uint("registro", reg.ID), zap.Error(err))
			continue
		}
		if !gravou {
			// preenchido por outra execução entre a leitura e a escrita
			rel.JaResolvidos++
			continue
		}

		rel.Resolvidos++
		rel.Lote.Sucesso()
		if c.BaixaConfianca() {
			rel.BaixaConfianca++
			s.Log.Warn("identificação de baixa confiança",
				zap.Uint("registro", reg.ID),
				zap.String("rotulo", reg.ReferenciaRotulo),
				zap.String("motorista", c.MotoristaID),
				zap.String("regra", string(c.Regra)))
		}
	}
	return rel, nil
}

// NaoMapeados devolve a fila de registros sem motorista da semana.
func (s *Servico) NaoMapeados(ctx context.Context, sem semana.ID) ([]plataforma.Registro, error) {
	return s.Registros.ListarNaoMapeados(ctx, sem)
}

// Mapear associa manualmente um registro a um motorista.
func (s *Servico) Mapear(ctx context.Context, registroID uint, motoristaID string) (*plataforma.Registro, error) {
	reg, err := s.Registros.BuscarPorID(ctx, registroID)
	if err != nil {
		return nil, err
	}
	m, err := s.Motoristas.BuscarPorID(ctx, motoristaID)
	if err != nil {
		return nil, err
	}
	if reg.Resolvido() {
		if *reg.MotoristaID == m.ID {
			return reg, nil
		}
		return nil, ErrJaMapeado
	}
	gravou, err := s.Registros.AtribuirMotorista(ctx, reg.ID, plataforma.Atribuicao{
		MotoristaID:   m.ID,
		MotoristaNome: m.Nome,
		Regra:         string(RegraManual),
	})
	if err != nil {
		return nil, err
	}
	if !gravou {
		return nil, ErrJaMapeado
	}
	s.Log.Info("registro mapeado manualmente", zap.Uint("registro", reg.ID), zap.String("motorista", m.ID))
	return s.Registros.BuscarPorID(ctx, registroID)
}

// Limpar remove a atribuição para permitir nova identificação.
func (s *Servico) Limpar(ctx context.Context, registroID uint) error {
	if err := s.Registros.LimparMotorista(ctx, registroID); err != nil {
		return err
	}
	s.Log.Info("atribuição removida", zap.Uint("registro", registroID))
	return nil
}
