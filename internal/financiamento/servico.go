// internal/financiamento/servico.go
package financiamento

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/logging"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrDadosInvalidos = errors.New("dados de financiamento inválidos")

// Servico cobre as operações administrativas de financiamento.
type Servico struct {
	Store      Store
	Motoristas motorista.Store
	Log        *zap.Logger
	Agora      func() time.Time
}

func NewServico(store Store, motoristas motorista.Store, log *zap.Logger) *Servico {
	return &Servico{Store: store, Motoristas: motoristas, Log: logging.OuNop(log), Agora: time.Now}
}

type NovoFinanciamento struct {
	MotoristaID  string          `json:"motoristaId" validate:"required"`
	Tipo         Tipo            `json:"tipo" validate:"required,oneof=loan discount"`
	Valor        decimal.Decimal `json:"valor"`
	Semanas      *int            `json:"semanas" validate:"omitempty,gte=1"`
	JurosSemanal decimal.Decimal `json:"jurosSemanal"`
	DataInicio   time.Time       `json:"dataInicio" validate:"required"`
	Descricao    string          `json:"descricao"`
}

func (s *Servico) Criar(ctx context.Context, in NovoFinanciamento) (*Financiamento, error) {
	if in.Valor.IsNegative() || in.JurosSemanal.IsNegative() {
		return nil, fmt.Errorf("%w: valores negativos", ErrDadosInvalidos)
	}
	if in.Semanas != nil && *in.Semanas < 1 {
		return nil, fmt.Errorf("%w: semanas deve ser >= 1", ErrDadosInvalidos)
	}
	if _, err := s.Motoristas.BuscarPorID(ctx, in.MotoristaID); err != nil {
		return nil, err
	}
	f := &Financiamento{
		ID:                   uuid.NewString(),
		MotoristaID:          in.MotoristaID,
		Tipo:                 in.Tipo,
		Valor:                in.Valor,
		Semanas:              copiarInt(in.Semanas),
		JurosSemanal:         in.JurosSemanal,
		DataInicio:           in.DataInicio.UTC(),
		Status:               StatusAtivo,
		SemanasRestantes:     copiarInt(in.Semanas),
		RegistrosProcessados: []string{},
		Descricao:            in.Descricao,
	}
	if err := s.Store.Criar(ctx, f); err != nil {
		return nil, fmt.Errorf("erro ao criar financiamento: %w", err)
	}
	s.Log.Info("financiamento criado", zap.String("financiamento", f.ID), zap.String("motorista", f.MotoristaID))
	return f, nil
}

func (s *Servico) ListarPorMotorista(ctx context.Context, motoristaID string) ([]Financiamento, error) {
	return s.Store.ListarPorMotorista(ctx, motoristaID)
}

// Concluir é a única forma de encerrar um financiamento sem prazo.
func (s *Servico) Concluir(ctx context.Context, id string) (*Financiamento, error) {
	f, err := s.Store.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.Concluir(s.Agora()); err != nil {
		return nil, err
	}
	if err := s.Store.Salvar(ctx, f); err != nil {
		return nil, err
	}
	s.Log.Info("financiamento concluído manualmente", zap.String("financiamento", id))
	return f, nil
}
