// Package memoria guarda todo o estado em mapas, para desenvolvimento local e testes.
// Transações serializam e tiram um snapshot dos dados; um erro restaura o snapshot.
package memoria

import (
	"context"
	"sync"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/comissao"
	"github.com/KromaEnergia/api-repasses/internal/extrato"
	"github.com/KromaEnergia/api-repasses/internal/financiamento"
	"github.com/KromaEnergia/api-repasses/internal/fontes"
	"github.com/KromaEnergia/api-repasses/internal/motorista"
	"github.com/KromaEnergia/api-repasses/internal/pagamento"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
)

type dados struct {
	motoristas     map[string]motorista.Motorista
	registros      map[uint]plataforma.Registro
	fontes         map[string]fontes.FontesSemana
	financiamentos map[string]financiamento.Financiamento
	regras         map[string]comissao.Regra
	bonus          map[string]comissao.BonusIndicacao
	estados        map[string]extrato.EstadoRegistro
	pagamentos     map[string]pagamento.Pagamento
	proxRegistro   uint
}

func novosDados() dados {
	return dados{
		motoristas:     map[string]motorista.Motorista{},
		registros:      map[uint]plataforma.Registro{},
		fontes:         map[string]fontes.FontesSemana{},
		financiamentos: map[string]financiamento.Financiamento{},
		regras:         map[string]comissao.Regra{},
		bonus:          map[string]comissao.BonusIndicacao{},
		estados:        map[string]extrato.EstadoRegistro{},
		pagamentos:     map[string]pagamento.Pagamento{},
		proxRegistro:   1,
	}
}

func (d dados) clonar() dados {
	c := novosDados()
	c.proxRegistro = d.proxRegistro
	for k, v := range d.motoristas {
		c.motoristas[k] = clonarMotorista(v)
	}
	for k, v := range d.registros {
		c.registros[k] = clonarRegistro(v)
	}
	for k, v := range d.fontes {
		c.fontes[k] = clonarFontes(v)
	}
	for k, v := range d.financiamentos {
		c.financiamentos[k] = v.Copia()
	}
	for k, v := range d.regras {
		c.regras[k] = clonarRegra(v)
	}
	for k, v := range d.bonus {
		c.bonus[k] = clonarBonus(v)
	}
	for k, v := range d.estados {
		c.estados[k] = clonarEstado(v)
	}
	for k, v := range d.pagamentos {
		c.pagamentos[k] = clonarPagamento(v)
	}
	return c
}

// Banco é o backend em memória. O valor zero não serve; use Novo.
type Banco struct {
	txMu sync.Mutex
	mu   sync.Mutex
	d    dados

	ultimo time.Time
}

func Novo() *Banco {
	return &Banco{d: novosDados()}
}

// agora é estritamente crescente, para UpdatedAt ordenar versões de regra. Chamar com mu travado.
func (b *Banco) agora() time.Time {
	t := time.Now().UTC()
	if !t.After(b.ultimo) {
		t = b.ultimo.Add(time.Nanosecond)
	}
	b.ultimo = t
	return t
}

func (b *Banco) Motoristas() *Motoristas         { return &Motoristas{b} }
func (b *Banco) Plataforma() *Registros          { return &Registros{b} }
func (b *Banco) Fontes() *Fontes                 { return &Fontes{b} }
func (b *Banco) Financiamentos() *Financiamentos { return &Financiamentos{b} }
func (b *Banco) Comissoes() *Comissoes           { return &Comissoes{b} }
func (b *Banco) Estados() *Estados               { return &Estados{b} }
func (b *Banco) Pagamentos() *Pagamentos         { return &Pagamentos{b} }

// Repositorios devolve os stores fora de transação.
func (b *Banco) Repositorios() pagamento.Repositorios {
	return pagamento.Repositorios{
		Pagamentos:     b.Pagamentos(),
		Financiamentos: b.Financiamentos(),
		Estados:        b.Estados(),
		Comissoes:      b.Comissoes(),
		Motoristas:     b.Motoristas(),
	}
}

var _ pagamento.Transacionador = (*Banco)(nil)

// Transacao executa fn com exclusão mútua entre transações; erro em fn restaura os dados.
func (b *Banco) Transacao(ctx context.Context, fn func(pagamento.Repositorios) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.txMu.Lock()
	defer b.txMu.Unlock()

	b.mu.Lock()
	snapshot := b.d.clonar()
	b.mu.Unlock()

	if err := fn(b.Repositorios()); err != nil {
		b.mu.Lock()
		b.d = snapshot
		b.mu.Unlock()
		return err
	}
	return nil
}

func clonarStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func clonarTempo(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func clonarInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func clonarMotorista(m motorista.Motorista) motorista.Motorista {
	m.RecrutadoPor = clonarStr(m.RecrutadoPor)
	return m
}

func clonarRegistro(r plataforma.Registro) plataforma.Registro {
	r.MotoristaID = clonarStr(r.MotoristaID)
	return r
}

func clonarFontes(f fontes.FontesSemana) fontes.FontesSemana {
	m := make(map[plataforma.Plataforma]fontes.StatusFonte, len(f.Fontes))
	for k, v := range f.Fontes {
		v.ImportadoEm = clonarTempo(v.ImportadoEm)
		m[k] = v
	}
	f.Fontes = m
	return f
}

func clonarRegra(r comissao.Regra) comissao.Regra {
	r.SubstituidaPor = clonarStr(r.SubstituidaPor)
	return r
}

func clonarBonus(b comissao.BonusIndicacao) comissao.BonusIndicacao {
	b.PagamentoID = clonarStr(b.PagamentoID)
	return b
}

func clonarEstado(e extrato.EstadoRegistro) extrato.EstadoRegistro {
	e.PagamentoID = clonarStr(e.PagamentoID)
	return e
}

func clonarPagamento(p pagamento.Pagamento) pagamento.Pagamento {
	p.Snapshot.Financiamentos = append([]extrato.LinhaFinanciamento{}, p.Snapshot.Financiamentos...)
	p.Calculo.Financiamentos = append([]extrato.FinanciamentoCalculado{}, p.Calculo.Financiamentos...)
	aps := make([]financiamento.Aplicacao, len(p.FinanciamentosProcessados))
	for i, ap := range p.FinanciamentosProcessados {
		ap.ParcelasRestantes = clonarInt(ap.ParcelasRestantes)
		aps[i] = ap
	}
	p.FinanciamentosProcessados = aps
	p.BonusMarcados = append([]string{}, p.BonusMarcados...)
	p.ComprovanteEm = clonarTempo(p.ComprovanteEm)
	p.CanceladoEm = clonarTempo(p.CanceladoEm)
	return p
}
