// internal/pagamento/projecao.go
package pagamento

import (
	"context"
	"fmt"

	"github.com/KromaEnergia/api-repasses/internal/comissao"
	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/extrato"
	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/shopspring/decimal"
)

// Calculadora de comissão usada na projeção; nil desliga comissões.
type Calculadora interface {
	Calcular(ctx context.Context, motoristaID string, s semana.ID) (comissao.Resultado, error)
}

// Projetor monta o registro semanal a partir do estado atual. Não grava nada.
type Projetor struct {
	Motoristas     motorista.Store
	Registros      plataforma.Store
	Financiamentos financiamento.Store
	Comissao       Calculadora
	Cfg            config.Financeiro
}

type Projecao struct {
	Motorista motorista.Motorista
	Entrada   extrato.Entrada
	Registro  extrato.Registro
	// Ativos são todos os financiamentos ativos, elegíveis ou não.
	Ativos   []financiamento.Financiamento
	Comissao comissao.Resultado
}

func (p *Projetor) Projetar(ctx context.Context, motoristaID string, s semana.ID) (Projecao, error) {
	var out Projecao

	m, err := p.Motoristas.BuscarPorID(ctx, motoristaID)
	if err != nil {
		return out, err
	}
	regs, err := p.Registros.ListarPorMotorista(ctx, s, motoristaID)
	if err != nil {
		return out, fmt.Errorf("erro ao buscar registros de %s em %s: %w", motoristaID, s, err)
	}
	ativos, err := p.Financiamentos.ListarAtivosPorMotorista(ctx, motoristaID)
	if err != nil {
		return out, fmt.Errorf("erro ao buscar financiamentos de %s: %w", motoristaID, err)
	}

	com := comissao.Resultado{MotoristaID: motoristaID, SemanaID: s}
	if p.Comissao != nil {
		com, err = p.Comissao.Calcular(ctx, motoristaID, s)
		if err != nil {
			return out, fmt.Errorf("erro ao calcular comissão de %s: %w", motoristaID, err)
		}
	}
	valorComissao := decimal.Zero
	if p.Cfg.Comissao.Habilitada {
		valorComissao = com.Total()
	}

	entrada := extrato.MontarEntrada(*m, s, plataforma.SomarTotais(regs), ativos, valorComissao, p.Cfg)
	return Projecao{
		Motorista: *m,
		Entrada:   entrada,
		Registro:  extrato.Calcular(entrada),
		Ativos:    ativos,
		Comissao:  com,
	}, nil
}

// cobrados são os financiamentos cuja parcela entrou no cálculo.
func (p Projecao) cobrados() map[string]struct{} {
	ids := make(map[string]struct{}, len(p.Entrada.Financiamentos))
	for _, l := range p.Entrada.Financiamentos {
		ids[l.FinanciamentoID] = struct{}{}
	}
	return ids
}

// aDescontar são os financiamentos que o pagamento avança no ledger.
func (p Projecao) aDescontar(cfg config.Financiamento) []string {
	if cfg.DecrementoDinamico {
		ids := make([]string, 0, len(p.Entrada.Financiamentos))
		for _, l := range p.Entrada.Financiamentos {
			ids = append(ids, l.FinanciamentoID)
		}
		return ids
	}
	ids := make([]string, 0, len(p.Ativos))
	for _, f := range p.Ativos {
		ids = append(ids, f.ID)
	}
	return ids
}
