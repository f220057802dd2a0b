// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ModoTaxaAdm define se a taxa administrativa é percentual ou valor fixo.
type ModoTaxaAdm string

const (
	TaxaPercentual ModoTaxaAdm = "percent"
	TaxaFixa       ModoTaxaAdm = "fixed"
)

// PoliticaElegibilidade define o limite da semana comparado à data de início do financiamento.
type PoliticaElegibilidade string

const (
	PoliticaFimSemana    PoliticaElegibilidade = "startDateToWeekEnd"
	PoliticaInicioSemana PoliticaElegibilidade = "startDateToWeekStart"
)

// Financiamento agrupa as opções de financiamento do FinancialConfig.
type Financiamento struct {
	CalculoDinamico       bool                  `yaml:"dynamicCalculation" json:"dynamicCalculation"`
	PoliticaElegibilidade PoliticaElegibilidade `yaml:"eligibilityPolicy" json:"eligibilityPolicy" validate:"oneof=startDateToWeekEnd startDateToWeekStart"`
	DecrementoDinamico    bool                  `yaml:"paymentDecrementDynamic" json:"paymentDecrementDynamic"`
}

type Comissao struct {
	Habilitada         bool `yaml:"enabled" json:"enabled"`
	ProfundidadeMaxima int  `yaml:"maxDepth" json:"maxDepth" validate:"gte=1,lte=3"`
}

// Financeiro é o FinancialConfig passado explicitamente aos cálculos.
// Percentuais são expressos em pontos (7 = 7%).
type Financeiro struct {
	ModoTaxaAdm       ModoTaxaAdm   `yaml:"adminFeeMode" json:"adminFeeMode" validate:"oneof=percent fixed"`
	TaxaAdmPercentual float64       `yaml:"adminFeePercent" json:"adminFeePercent" validate:"gte=0,lte=100"`
	TaxaAdmFixaPadrao float64       `yaml:"adminFeeFixedDefault" json:"adminFeeFixedDefault" validate:"gte=0"`
	TaxaIVA           float64       `yaml:"vatRate" json:"vatRate" validate:"gte=0,lte=100"`
	Financiamento     Financiamento `yaml:"financing" json:"financing"`
	Comissao          Comissao      `yaml:"commission" json:"commission"`
}

// Padrao devolve os valores padrão da plataforma.
func Padrao() Financeiro {
	return Financeiro{
		ModoTaxaAdm:       TaxaPercentual,
		TaxaAdmPercentual: 7,
		TaxaAdmFixaPadrao: 25,
		TaxaIVA:           6,
		Financiamento: Financiamento{
			CalculoDinamico:       true,
			PoliticaElegibilidade: PoliticaFimSemana,
			DecrementoDinamico:    true,
		},
		Comissao: Comissao{
			Habilitada:         true,
			ProfundidadeMaxima: 3,
		},
	}
}

var validate = validator.New()

// Validar checa os limites de cada opção.
func (f Financeiro) Validar() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("configuração financeira inválida: %w", err)
	}
	return nil
}

// CarregarFinanceiro lê o YAML sobre os valores padrão; chaves ausentes mantêm o padrão.
// Caminho vazio devolve o padrão.
func CarregarFinanceiro(caminho string) (Financeiro, error) {
	cfg := Padrao()
	if caminho == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(caminho)
	if err != nil {
		return cfg, fmt.Errorf("erro ao ler %s: %w", caminho, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("erro ao decodificar %s: %w", caminho, err)
	}
	return cfg, cfg.Validar()
}

/* ============================= Ambiente ============================= */

// App guarda a configuração de processo lida do ambiente.
type App struct {
	Porta             string
	DBDriver          string
	DBHost            string
	DBPorta           string
	DBNome            string
	DBUsuario         string
	DBSenha           string
	DBSemSSL          bool
	JWTSecret         string
	LogNivel          string
	LogFormato        string
	ArquivoFinanceiro string
	CronReconciliacao string
	FusoHorario       string
	OrigensCORS       []string
}

// CarregarAmbiente carrega o .env (se existir) e lê as variáveis.
func CarregarAmbiente() App {
	_ = godotenv.Load()

	app := App{
		Porta:             valorOu("PORT", "8080"),
		DBDriver:          valorOu("DB_DRIVER", "postgres"),
		DBHost:            valorOu("DB_HOST", "localhost"),
		DBPorta:           valorOu("DB_PORT", "5432"),
		DBNome:            valorOu("DB_NAME", "repasses"),
		DBUsuario:         os.Getenv("DB_USERNAME"),
		DBSenha:           os.Getenv("DB_PASSWORD"),
		DBSemSSL:          os.Getenv("DB_SSL_MODE_DISABLE") == "true",
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LogNivel:          valorOu("LOG_LEVEL", "info"),
		LogFormato:        valorOu("LOG_FORMAT", "json"),
		ArquivoFinanceiro: os.Getenv("CONFIG_FILE"),
		CronReconciliacao: valorOu("RECONCILIACAO_CRON", "0 3 * * *"),
		FusoHorario:       valorOu("TZ_RECONCILIACAO", "Europe/Lisbon"),
	}
	if origens := os.Getenv("CORS_ORIGINS"); origens != "" {
		for _, o := range strings.Split(origens, ",") {
			if o = strings.TrimSpace(o); o != "" {
				app.OrigensCORS = append(app.OrigensCORS, o)
			}
		}
	}
	return app
}

func valorOu(chave, padrao string) string {
	if v := os.Getenv(chave); v != "" {
		return v
	}
	return padrao
}
