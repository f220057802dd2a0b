// internal/fontes/servico.go
package fontes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/identificacao"
	"github.com/KromaEnergia/api-repasses/internal/logging"
	"github.com/KromaEnergia/api-repasses/internal/lote"
	"github.com/KromaEnergia/api-repasses/internal/plataforma"
	"github.com/KromaEnergia/api-repasses/internal/semana"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Identificador roda a identificação depois de uma importação.
type Identificador interface {
	ResolverSemana(ctx context.Context, s semana.ID) (identificacao.Relatorio, error)
}

type Servico struct {
	Fontes    Store
	Registros plataforma.Store
	// Identificador opcional; nil desliga a identificação automática.
	Identificador Identificador
	Log           *zap.Logger
	Agora         func() time.Time

	validate *validator.Validate
}

func NewServico(fontes Store, registros plataforma.Store, ident Identificador, log *zap.Logger) *Servico {
	return &Servico{
		Fontes:        fontes,
		Registros:     registros,
		Identificador: ident,
		Log:           logging.OuNop(log),
		Agora:         time.Now,
		validate:      validator.New(),
	}
}

// Resultado é o retorno de uma importação.
type Resultado struct {
	Semana        semana.ID                `json:"semana"`
	Plataforma    plataforma.Plataforma    `json:"plataforma"`
	Status        StatusFonte              `json:"status"`
	Completa      bool                     `json:"completa"`
	Lote          lote.Resultado           `json:"lote"`
	Identificacao *identificacao.Relatorio `json:"identificacao,omitempty"`
}

// AbrirSemana é idempotente: devolve a semana existente sem alterá-la.
func (s *Servico) AbrirSemana(ctx context.Context, sem semana.ID) (*FontesSemana, bool, error) {
	criou, err := s.Fontes.Abrir(ctx, NovaSemana(sem))
	if err != nil {
		return nil, false, fmt.Errorf("erro ao abrir semana %s: %w", sem, err)
	}
	f, err := s.Fontes.Buscar(ctx, sem)
	if err != nil {
		return nil, false, err
	}
	if criou {
		s.Log.Info("semana aberta", zap.String("semana", string(sem)))
	}
	return f, criou, nil
}

func (s *Servico) Buscar(ctx context.Context, sem semana.ID) (*FontesSemana, error) {
	return s.Fontes.Buscar(ctx, sem)
}

// Importar substitui os registros de uma plataforma na semana pelas linhas válidas.
// Linhas inválidas viram falhas do lote; atribuições já feitas são mantidas
// para a mesma referência, o que torna a reimportação idempotente.
func (s *Servico) Importar(ctx context.Context, sem semana.ID, p plataforma.Plataforma, linhas []plataforma.Linha, origem Origem) (Resultado, error) {
	res := Resultado{Semana: sem, Plataforma: p}

	f, err := s.Fontes.Buscar(ctx, sem)
	if err != nil {
		return res, err
	}
	if origem == "" {
		origem = OrigemAuto
	}

	anteriores, err := s.atribuicoesAnteriores(ctx, sem, p)
	if err != nil {
		return res, err
	}

	regs := s.agrupar(linhas, &res.Lote)
	for i := range regs {
		if a, ok := anteriores[chaveReferencia(regs[i].ReferenciaID)]; ok {
			regs[i].MotoristaID = a.MotoristaID
			regs[i].MotoristaNome = a.MotoristaNome
			regs[i].RegraIdentificacao = a.RegraIdentificacao
			regs[i].BaixaConfianca = a.BaixaConfianca
		}
	}

	agora := s.Agora().UTC()
	st := StatusFonte{Origem: origem, ImportadoEm: &agora, Registros: len(regs)}

	// sem nenhuma linha válida os registros anteriores ficam como estão
	if len(regs) > 0 || len(linhas) == 0 {
		if err := s.Registros.SubstituirSemana(ctx, sem, p, regs); err != nil {
			st.Status = StatusPendente
			st.UltimoErro = err.Error()
			f.Atualizar(p, st)
			if errSalvar := s.Fontes.Salvar(ctx, f); errSalvar != nil {
				s.Log.Error("erro ao gravar status da fonte", zap.Error(errSalvar))
			}
			return res, fmt.Errorf("erro ao gravar registros de %s em %s: %w", p, sem, err)
		}
	}

	if s.Identificador != nil && len(regs) > 0 {
		rel, err := s.Identificador.ResolverSemana(ctx, sem)
		if err != nil {
			s.Log.Error("identificação automática falhou", zap.String("semana", string(sem)), zap.Error(err))
		} else {
			res.Identificacao = &rel
		}
	}

	st.Motoristas, err = s.contarMotoristas(ctx, sem, p)
	if err != nil {
		return res, err
	}

	switch {
	case res.Lote.Ok():
		st.Status = StatusCompleta
	case len(regs) > 0:
		st.Status = StatusParcial
	default:
		st.Status = StatusPendente
	}
	if !res.Lote.Ok() {
		st.UltimoErro = resumirFalhas(res.Lote)
	}

	f.Atualizar(p, st)
	if err := s.Fontes.Salvar(ctx, f); err != nil {
		return res, fmt.Errorf("erro ao gravar status da fonte: %w", err)
	}
	res.Status = st
	res.Completa = f.Completa

	s.Log.Info("importação concluída",
		zap.String("semana", string(sem)),
		zap.String("plataforma", string(p)),
		zap.String("status", string(st.Status)),
		zap.Int("registros", st.Registros),
		zap.Int("falhas", len(res.Lote.Falhas)))
	return res, nil
}

// Sobrescrever troca o status manualmente, sem tocar nos registros.
func (s *Servico) Sobrescrever(ctx context.Context, sem semana.ID, p plataforma.Plataforma, status Status, motivo string) (*FontesSemana, error) {
	if !status.Valido() {
		return nil, fmt.Errorf("status inválido: %q", status)
	}
	f, err := s.Fontes.Buscar(ctx, sem)
	if err != nil {
		return nil, err
	}
	st := f.Fontes[p]
	st.Status = status
	st.Origem = OrigemManual
	st.UltimoErro = motivo
	f.Atualizar(p, st)
	if err := s.Fontes.Salvar(ctx, f); err != nil {
		return nil, err
	}
	s.Log.Info("status de fonte sobrescrito",
		zap.String("semana", string(sem)),
		zap.String("plataforma", string(p)),
		zap.String("status", string(status)))
	return f, nil
}

// agrupar valida as linhas e soma as que repetem a mesma referência.
func (s *Servico) agrupar(linhas []plataforma.Linha, res *lote.Resultado) []plataforma.Registro {
	regs := make([]plataforma.Registro, 0, len(linhas))
	indice := map[string]int{}
	for i, l := range linhas {
		item := fmt.Sprintf("linha %d", i+1)
		l.ReferenciaID = strings.TrimSpace(l.ReferenciaID)
		if err := s.validate.Struct(l); err != nil {
			res.Falhou(item, err)
			continue
		}
		if l.ValorTotal.IsNegative() {
			res.Falhou(item, errors.New("valor total negativo"))
			continue
		}
		res.Sucesso()
		k := chaveReferencia(l.ReferenciaID)
		if j, ok := indice[k]; ok {
			regs[j].ValorTotal = regs[j].ValorTotal.Add(l.ValorTotal)
			regs[j].TotalViagens += l.TotalViagens
			continue
		}
		indice[k] = len(regs)
		regs = append(regs, plataforma.Registro{
			ReferenciaID:     l.ReferenciaID,
			ReferenciaRotulo: strings.TrimSpace(l.ReferenciaRotulo),
			ValorTotal:       l.ValorTotal,
			TotalViagens:     l.TotalViagens,
		})
	}
	return regs
}

func (s *Servico) atribuicoesAnteriores(ctx context.Context, sem semana.ID, p plataforma.Plataforma) (map[string]plataforma.Registro, error) {
	regs, err := s.Registros.ListarPorSemana(ctx, sem)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar registros da semana %s: %w", sem, err)
	}
	out := map[string]plataforma.Registro{}
	for _, r := range regs {
		if r.Plataforma == p && r.Resolvido() {
			out[chaveReferencia(r.ReferenciaID)] = r
		}
	}
	return out, nil
}

func (s *Servico) contarMotoristas(ctx context.Context, sem semana.ID, p plataforma.Plataforma) (int, error) {
	regs, err := s.Registros.ListarPorSemana(ctx, sem)
	if err != nil {
		return 0, err
	}
	vistos := map[string]struct{}{}
	for _, r := range regs {
		if r.Plataforma == p && r.Resolvido() {
			vistos[*r.MotoristaID] = struct{}{}
		}
	}
	return len(vistos), nil
}

func chaveReferencia(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func resumirFalhas(r lote.Resultado) string {
	msgs := make([]string, 0, len(r.Falhas))
	for _, f := range r.Falhas {
		msgs = append(msgs, f.Item+": "+f.Motivo)
	}
	return strings.Join(msgs, "; ")
}
