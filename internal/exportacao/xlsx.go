// internal/exportacao/xlsx.go
package exportacao

import (
	"fmt"
	"io"
	"time"

	"github.com/KromaEnergia/api-repasses/internal/pagamento"
	"github.com/xuri/excelize/v2"
)

const aba = "Pagamentos"

var cabecalho = []interface{}{
	"Pagamento", "Registro", "Motorista", "Nome", "Semana",
	"Base", "Bônus", "Descontos", "Total", "Taxa Adm", "IVA", "Comissão",
	"Criado em", "Cancelado em",
}

// PagamentosXLSX escreve uma planilha com uma linha por pagamento do ledger.
func PagamentosXLSX(w io.Writer, pags []pagamento.Pagamento) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", aba); err != nil {
		return err
	}
	if err := f.SetSheetRow(aba, "A1", &cabecalho); err != nil {
		return err
	}

	for i, p := range pags {
		cel, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cancelado := ""
		if p.CanceladoEm != nil {
			cancelado = p.CanceladoEm.UTC().Format(time.RFC3339)
		}
		linha := []interface{}{
			p.ID, p.RegistroID, p.MotoristaID, p.MotoristaNome, p.SemanaID,
			p.ValorBase.InexactFloat64(),
			p.ValorBonus.InexactFloat64(),
			p.ValorDesconto.InexactFloat64(),
			p.ValorTotal.InexactFloat64(),
			p.TaxaAdmValor.InexactFloat64(),
			p.IvaValor.InexactFloat64(),
			p.ComissaoPaga.InexactFloat64(),
			p.CreatedAt.UTC().Format(time.RFC3339),
			cancelado,
		}
		if err := f.SetSheetRow(aba, cel, &linha); err != nil {
			return fmt.Errorf("erro na linha %d: %w", i+2, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
