// internal/comissao/servico.go
package comissao

import (
	"context"
	"errors"
	"fmt"

	"github.com/KromaEnergia/api-repasses/internal/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrRegraInvalida    = errors.New("regra de comissão inválida")
	ErrRegraSubstituida = errors.New("regra já substituída")
)

// Servico administra as regras; o cálculo fica no Motor.
type Servico struct {
	Store Store
	Motor *Motor
	Log   *zap.Logger
}

func NewServico(store Store, motor *Motor, log *zap.Logger) *Servico {
	return &Servico{Store: store, Motor: motor, Log: logging.OuNop(log)}
}

type NovaRegra struct {
	Tipo       TipoRegra           `json:"tipo" validate:"required,oneof=base recruitment"`
	Nivel      int                 `json:"nivel" validate:"gte=1,lte=3"`
	Percentual decimal.Decimal     `json:"percentual"`
	ValorFixo  decimal.NullDecimal `json:"valorFixo"`
	Criterios  Criterios           `json:"criterios"`
}

func (n NovaRegra) regra() (*Regra, error) {
	if n.Nivel < 1 || n.Nivel > 3 {
		return nil, fmt.Errorf("%w: nível %d", ErrRegraInvalida, n.Nivel)
	}
	if n.Tipo != TipoBase && n.Tipo != TipoRecrutamento {
		return nil, fmt.Errorf("%w: tipo %q", ErrRegraInvalida, n.Tipo)
	}
	if n.Percentual.IsNegative() || (n.ValorFixo.Valid && n.ValorFixo.Decimal.IsNegative()) {
		return nil, fmt.Errorf("%w: valores negativos", ErrRegraInvalida)
	}
	return &Regra{
		ID:         uuid.NewString(),
		Tipo:       n.Tipo,
		Nivel:      n.Nivel,
		Percentual: n.Percentual,
		ValorFixo:  n.ValorFixo,
		Criterios:  n.Criterios,
		Ativa:      true,
	}, nil
}

func (s *Servico) CriarRegra(ctx context.Context, in NovaRegra) (*Regra, error) {
	r, err := in.regra()
	if err != nil {
		return nil, err
	}
	if err := s.Store.CriarRegra(ctx, r); err != nil {
		return nil, err
	}
	s.Log.Info("regra de comissão criada", zap.String("regra", r.ID), zap.String("tipo", string(r.Tipo)), zap.Int("nivel", r.Nivel))
	return r, nil
}

// SubstituirRegra cria uma nova versão; a antiga fica inativa e aponta para a nova.
func (s *Servico) SubstituirRegra(ctx context.Context, antigaID string, in NovaRegra) (*Regra, error) {
	antiga, err := s.Store.BuscarRegra(ctx, antigaID)
	if err != nil {
		return nil, err
	}
	if antiga.SubstituidaPor != nil {
		return nil, ErrRegraSubstituida
	}
	nova, err := in.regra()
	if err != nil {
		return nil, err
	}
	if err := s.Store.SubstituirRegra(ctx, antigaID, nova); err != nil {
		return nil, err
	}
	s.Log.Info("regra de comissão substituída", zap.String("antiga", antigaID), zap.String("nova", nova.ID))
	return nova, nil
}

func (s *Servico) AlterarAtiva(ctx context.Context, id string, ativa bool) (*Regra, error) {
	r, err := s.Store.BuscarRegra(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.SubstituidaPor != nil && ativa {
		return nil, ErrRegraSubstituida
	}
	r.Ativa = ativa
	if err := s.Store.SalvarRegra(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// RegistrarBonus cria um bônus de indicação pendente.
func (s *Servico) RegistrarBonus(ctx context.Context, motoristaID, indicadoID string, valor decimal.Decimal) (*BonusIndicacao, error) {
	b := &BonusIndicacao{
		ID:          uuid.NewString(),
		MotoristaID: motoristaID,
		IndicadoID:  indicadoID,
		Valor:       valor,
		Status:      BonusPendente,
	}
	if err := s.Store.CriarBonus(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
