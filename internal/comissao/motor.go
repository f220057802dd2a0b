// internal/comissao/motor.go
package comissao

import (
	"context"
	"fmt"

	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/shopspring/decimal"
)

// FonteGanhos fornece os ganhos de viagens de um motorista na semana.
type FonteGanhos interface {
	GanhosSemana(ctx context.Context, motoristaID string, s semana.ID) (decimal.Decimal, error)
}

const (
	motivoMinGanhos     = "ganhos abaixo do mínimo da regra"
	motivoMinRecrutados = "recrutados ativos abaixo do mínimo da regra"
)

// Linha detalha a contribuição de uma regra; valor zero vem com o motivo.
type Linha struct {
	Tipo        TipoRegra       `json:"tipo"`
	Nivel       int             `json:"nivel"`
	RegraID     string          `json:"regraId"`
	MotoristaID string          `json:"motoristaId"`
	Ganhos      decimal.Decimal `json:"ganhos"`
	Valor       decimal.Decimal `json:"valor"`
	Motivo      string          `json:"motivo,omitempty"`
}

type Resultado struct {
	MotoristaID  string          `json:"motoristaId"`
	SemanaID     semana.ID       `json:"semanaId"`
	Base         decimal.Decimal `json:"base"`
	Recrutamento decimal.Decimal `json:"recrutamento"`
	Bonus        decimal.Decimal `json:"bonus"`
	Linhas       []Linha         `json:"linhas"`
	// BonusIDs são os bônus pendentes somados; o pagamento os marca como pagos.
	BonusIDs []string `json:"bonusIds"`
}

// Total é o valor somado ao repasse.
func (r Resultado) Total() decimal.Decimal {
	return r.Base.Add(r.Recrutamento).Add(r.Bonus)
}

// Motor calcula comissões de afiliados. Só lê; nada é gravado.
type Motor struct {
	Regras     Store
	Motoristas motorista.Store
	Ganhos     FonteGanhos
	Cfg        config.Comissao
}

type chaveRegra struct {
	tipo  TipoRegra
	nivel int
}

func (m *Motor) Calcular(ctx context.Context, motoristaID string, s semana.ID) (Resultado, error) {
	res := Resultado{MotoristaID: motoristaID, SemanaID: s, Linhas: []Linha{}, BonusIDs: []string{}}

	mot, err := m.Motoristas.BuscarPorID(ctx, motoristaID)
	if err != nil {
		return res, err
	}
	if !m.Cfg.Habilitada || mot.Tipo != motorista.TipoAfiliado {
		return res, nil
	}

	regras, err := m.regrasVigentes(ctx)
	if err != nil {
		return res, err
	}

	if rg, ok := regras[chaveRegra{TipoBase, mot.NivelAfiliado}]; ok {
		ganhos, err := m.Ganhos.GanhosSemana(ctx, mot.ID, s)
		if err != nil {
			return res, fmt.Errorf("erro ao somar ganhos de %s: %w", mot.ID, err)
		}
		l := Linha{Tipo: TipoBase, Nivel: rg.Nivel, RegraID: rg.ID, MotoristaID: mot.ID, Ganhos: ganhos, Valor: decimal.Zero}
		if ganhos.LessThan(rg.Criterios.MinGanhos) {
			l.Motivo = motivoMinGanhos
		} else {
			l.Valor = rg.Contribuicao(ganhos)
		}
		res.Base = res.Base.Add(l.Valor)
		res.Linhas = append(res.Linhas, l)
	}

	if err := m.recrutamento(ctx, mot, s, regras, &res); err != nil {
		return res, err
	}

	bonus, err := m.Regras.ListarBonusPendentes(ctx, mot.ID)
	if err != nil {
		return res, fmt.Errorf("erro ao listar bônus de %s: %w", mot.ID, err)
	}
	for _, b := range bonus {
		res.Bonus = res.Bonus.Add(b.Valor)
		res.BonusIDs = append(res.BonusIDs, b.ID)
	}
	return res, nil
}

// recrutamento percorre a rede em largura; a profundidade define o nível da regra.
func (m *Motor) recrutamento(ctx context.Context, mot *motorista.Motorista, s semana.ID, regras map[chaveRegra]Regra, res *Resultado) error {
	diretos, err := m.recrutadosAtivos(ctx, mot.ID)
	if err != nil {
		return err
	}
	totalDiretos := len(diretos)
	visitados := map[string]bool{mot.ID: true}
	atual := diretos

	for nivel := 1; nivel <= m.Cfg.ProfundidadeMaxima && len(atual) > 0; nivel++ {
		rg, temRegra := regras[chaveRegra{TipoRecrutamento, nivel}]
		var proximo []motorista.Motorista
		for _, r := range atual {
			if visitados[r.ID] {
				continue
			}
			visitados[r.ID] = true

			if temRegra {
				l, err := m.linhaRecrutamento(ctx, rg, r.ID, s, totalDiretos)
				if err != nil {
					return err
				}
				res.Recrutamento = res.Recrutamento.Add(l.Valor)
				res.Linhas = append(res.Linhas, l)
			}

			if nivel < m.Cfg.ProfundidadeMaxima {
				filhos, err := m.recrutadosAtivos(ctx, r.ID)
				if err != nil {
					return err
				}
				proximo = append(proximo, filhos...)
			}
		}
		atual = proximo
	}
	return nil
}

func (m *Motor) linhaRecrutamento(ctx context.Context, rg Regra, recrutadoID string, s semana.ID, totalDiretos int) (Linha, error) {
	l := Linha{Tipo: TipoRecrutamento, Nivel: rg.Nivel, RegraID: rg.ID, MotoristaID: recrutadoID, Valor: decimal.Zero}
	ganhos, err := m.Ganhos.GanhosSemana(ctx, recrutadoID, s)
	if err != nil {
		return l, fmt.Errorf("erro ao somar ganhos de %s: %w", recrutadoID, err)
	}
	l.Ganhos = ganhos
	switch {
	case totalDiretos < rg.Criterios.MinRecrutados:
		l.Motivo = motivoMinRecrutados
	case ganhos.LessThan(rg.Criterios.MinGanhos):
		l.Motivo = motivoMinGanhos
	default:
		l.Valor = rg.Contribuicao(ganhos)
	}
	return l, nil
}

func (m *Motor) recrutadosAtivos(ctx context.Context, id string) ([]motorista.Motorista, error) {
	list, err := m.Motoristas.ListarRecrutados(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar recrutados de %s: %w", id, err)
	}
	ativos := list[:0]
	for _, r := range list {
		if r.Ativo {
			ativos = append(ativos, r)
		}
	}
	return ativos, nil
}

// regrasVigentes escolhe, por tipo e nível, a regra ativa alterada mais recentemente.
func (m *Motor) regrasVigentes(ctx context.Context) (map[chaveRegra]Regra, error) {
	list, err := m.Regras.ListarRegrasAtivas(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar regras de comissão: %w", err)
	}
	out := map[chaveRegra]Regra{}
	for _, r := range list {
		k := chaveRegra{r.Tipo, r.Nivel}
		if atual, ok := out[k]; !ok || r.UpdatedAt.After(atual.UpdatedAt) {
			out[k] = r
		}
	}
	return out, nil
}
