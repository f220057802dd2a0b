// internal/extrato/calculo.go
package extrato

import (
	"github.com/KromaEnergia/api-repasses/internal/config"
	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/shopspring/decimal"
)

var cem = decimal.NewFromInt(100)

// TaxaAdm já resolvida entre sobrescrita do motorista e padrão da plataforma.
type TaxaAdm struct {
	Modo  config.ModoTaxaAdm `json:"modo"`
	Valor decimal.Decimal    `json:"valor"`
}

// LinhaFinanciamento é um financiamento elegível na semana.
type LinhaFinanciamento struct {
	FinanciamentoID string          `json:"financingId"`
	JurosSemanal    decimal.Decimal `json:"weeklyInterest"`
	Parcela         decimal.Decimal `json:"installment"`
}

// Entrada reúne o mínimo necessário para refazer o cálculo; é o snapshot do pagamento.
type Entrada struct {
	MotoristaID    string               `json:"driverId"`
	MotoristaNome  string               `json:"driverName"`
	SemanaID       semana.ID            `json:"weekId"`
	GanhosRideA    decimal.Decimal      `json:"rideA"`
	GanhosRideB    decimal.Decimal      `json:"rideB"`
	Combustivel    decimal.Decimal      `json:"fuel"`
	Portagens      decimal.Decimal      `json:"tolls"`
	Viagens        int                  `json:"trips"`
	TaxaIVA        decimal.Decimal      `json:"vatRate"`
	TaxaAdm        TaxaAdm              `json:"adminFee"`
	Isento         bool                 `json:"adminFeeExempt"`
	Aluguel        decimal.Decimal      `json:"rent"`
	Financiamentos []LinhaFinanciamento `json:"financing"`
	Comissao       decimal.Decimal      `json:"commission"`
}

// MontarEntrada resolve configuração, isenção e elegibilidade para a semana.
func MontarEntrada(m motorista.Motorista, s semana.ID, tot plataforma.Totais, fins []financiamento.Financiamento, comissao decimal.Decimal, cfg config.Financeiro) Entrada {
	e := Entrada{
		MotoristaID:    m.ID,
		MotoristaNome:  m.Nome,
		SemanaID:       s,
		GanhosRideA:    tot.RideA,
		GanhosRideB:    tot.RideB,
		Combustivel:    tot.Combustivel,
		Portagens:      tot.Portagens,
		Viagens:        tot.Viagens,
		TaxaIVA:        decimal.NewFromFloat(cfg.TaxaIVA),
		Isento:         m.TemIsencao(),
		Aluguel:        decimal.Zero,
		Financiamentos: []LinhaFinanciamento{},
		Comissao:       comissao,
	}

	switch {
	case m.TemSobrescritaTaxa():
		e.TaxaAdm = TaxaAdm{Modo: m.TaxaAdmModo, Valor: m.TaxaAdmValor.Decimal}
	case cfg.ModoTaxaAdm == config.TaxaFixa:
		e.TaxaAdm = TaxaAdm{Modo: config.TaxaFixa, Valor: decimal.NewFromFloat(cfg.TaxaAdmFixaPadrao)}
	default:
		e.TaxaAdm = TaxaAdm{Modo: config.TaxaPercentual, Valor: decimal.NewFromFloat(cfg.TaxaAdmPercentual)}
	}

	if m.PagaAluguel() {
		e.Aluguel = m.ValorAluguel
	}

	for _, f := range fins {
		if f.MotoristaID != m.ID || !f.Elegivel(s, cfg.Financiamento) {
			continue
		}
		e.Financiamentos = append(e.Financiamentos, LinhaFinanciamento{
			FinanciamentoID: f.ID,
			JurosSemanal:    f.JurosSemanal,
			Parcela:         f.ParcelaSemanal(),
		})
	}
	return e
}

// FinanciamentoCalculado é o custo de um financiamento na semana.
type FinanciamentoCalculado struct {
	FinanciamentoID string          `json:"financingId"`
	Juros           decimal.Decimal `json:"interest"`
	Parcela         decimal.Decimal `json:"installment"`
}

// Registro é o DriverWeeklyRecord calculado. Valores arredondados a 2 casas.
type Registro struct {
	ID                 string                   `json:"id"`
	MotoristaID        string                   `json:"motoristaId"`
	MotoristaNome      string                   `json:"motoristaNome"`
	SemanaID           semana.ID                `json:"semanaId"`
	GanhosRideA        decimal.Decimal          `json:"ganhosRideA"`
	GanhosRideB        decimal.Decimal          `json:"ganhosRideB"`
	GanhosTotal        decimal.Decimal          `json:"ganhosTotal"`
	IvaValor           decimal.Decimal          `json:"ivaValor"`
	GanhosMenosIVA     decimal.Decimal          `json:"ganhosMenosIVA"`
	DespesasBase       decimal.Decimal          `json:"despesasBase"`
	JurosFinanciamento decimal.Decimal          `json:"jurosFinanciamento"`
	DespesasAdm        decimal.Decimal          `json:"despesasAdm"`
	Combustivel        decimal.Decimal          `json:"combustivel"`
	Portagens          decimal.Decimal          `json:"portagens"`
	Aluguel            decimal.Decimal          `json:"aluguel"`
	CustoFinanciamento decimal.Decimal          `json:"custoFinanciamento"`
	Comissao           decimal.Decimal          `json:"comissao"`
	Repasse            decimal.Decimal          `json:"repasse"`
	Viagens            int                      `json:"viagens"`
	Isento             bool                     `json:"isento"`
	Financiamentos     []FinanciamentoCalculado `json:"financiamentos"`
}

// Calcular aplica a cascata do extrato. Função pura: precisão total nos passos,
// arredondamento só na saída.
func Calcular(e Entrada) Registro {
	ganhos := e.GanhosRideA.Add(e.GanhosRideB)
	iva := ganhos.Mul(e.TaxaIVA).Div(cem)
	liquido := ganhos.Sub(iva)

	base := e.TaxaAdm.Valor
	if e.TaxaAdm.Modo != config.TaxaFixa {
		base = liquido.Mul(e.TaxaAdm.Valor).Div(cem)
	}
	// isenção zera só a taxa base; juros de financiamento continuam
	if e.Isento {
		base = decimal.Zero
	}

	juros := decimal.Zero
	custo := decimal.Zero
	fins := make([]FinanciamentoCalculado, 0, len(e.Financiamentos))
	for _, f := range e.Financiamentos {
		j := liquido.Mul(f.JurosSemanal).Div(cem)
		juros = juros.Add(j)
		custo = custo.Add(f.Parcela)
		fins = append(fins, FinanciamentoCalculado{FinanciamentoID: f.FinanciamentoID, Juros: j.Round(2), Parcela: f.Parcela.Round(2)})
	}
	despesas := base.Add(juros)

	repasse := liquido.
		Sub(despesas).
		Sub(e.Combustivel).
		Sub(e.Portagens).
		Sub(e.Aluguel).
		Sub(custo).
		Add(e.Comissao)

	return Registro{
		ID:                 IDRegistro(e.MotoristaID, e.SemanaID),
		MotoristaID:        e.MotoristaID,
		MotoristaNome:      e.MotoristaNome,
		SemanaID:           e.SemanaID,
		GanhosRideA:        e.GanhosRideA.Round(2),
		GanhosRideB:        e.GanhosRideB.Round(2),
		GanhosTotal:        ganhos.Round(2),
		IvaValor:           iva.Round(2),
		GanhosMenosIVA:     liquido.Round(2),
		DespesasBase:       base.Round(2),
		JurosFinanciamento: juros.Round(2),
		DespesasAdm:        despesas.Round(2),
		Combustivel:        e.Combustivel.Round(2),
		Portagens:          e.Portagens.Round(2),
		Aluguel:            e.Aluguel.Round(2),
		CustoFinanciamento: custo.Round(2),
		Comissao:           e.Comissao.Round(2),
		Repasse:            repasse.Round(2),
		Viagens:            e.Viagens,
		Isento:             e.Isento,
		Financiamentos:     fins,
	}
}

// IDRegistro é a chave natural driverId_weekId.
func IDRegistro(motoristaID string, s semana.ID) string {
	return motoristaID + "_" + string(s)
}
