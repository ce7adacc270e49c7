package infra

// pdf.go — printable stock & cuentas corrientes report using go-pdf/fpdf.
// Generates an A4 document with:
//   - Report header and generation timestamp
//   - Stock table (currency, quantity, weighted average cost, total cost)
//   - Cuentas corrientes table (provider, currency, ingresos, egresos, saldo)
//
// The output file is saved to storagePath/reporte_stock_{timestamp}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"casacambios/internal/engine"

	"github.com/go-pdf/fpdf"
)

// GenerateStockPDF renders the current stock snapshot plus the cuentas
// corrientes balances into a PDF and returns the absolute file path.
func GenerateStockPDF(stock map[string]engine.StockEntry, cuentas map[engine.CCKey]engine.CCAccount, generado time.Time, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("reporte_stock_%s.pdf", generado.Format("20060102_150405"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, "Reporte de Stock de Divisas", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Generado: "+generado.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Stock table ───────────────────────────────────────────────────────────
	colMoneda := contentW * 0.20
	colNum := contentW * 0.80 / 3

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colMoneda, 6, "Moneda", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colNum, 6, "Cantidad", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colNum, 6, "Costo Promedio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colNum, 6, "Costo Total", "B", 1, "R", false, 0, "")

	monedas := make([]string, 0, len(stock))
	for m := range stock {
		monedas = append(monedas, m)
	}
	sort.Strings(monedas)

	pdf.SetFont("Helvetica", "", 9)
	for _, m := range monedas {
		e := stock[m]
		pdf.CellFormat(colMoneda, 6, m, "", 0, "L", false, 0, "")
		pdf.CellFormat(colNum, 6, e.Cantidad.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colNum, 6, e.CostoPromedio.StringFixed(4), "", 0, "R", false, 0, "")
		pdf.CellFormat(colNum, 6, e.TotalCostoEnMonedaTC.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if len(monedas) == 0 {
		pdf.CellFormat(contentW, 6, "Sin movimientos de stock", "", 1, "C", false, 0, "")
	}

	// ── Cuentas corrientes table ──────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, "Cuentas Corrientes", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	colProv := contentW * 0.24
	colMon := contentW * 0.12
	colCC := contentW * 0.64 / 4

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colProv, 6, "Proveedor", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colMon, 6, "Moneda", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCC, 6, "Ingresos", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colCC, 6, "Egresos", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colCC, 6, "Saldo", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colCC, 6, "Estado", "B", 1, "C", false, 0, "")

	keys := make([]engine.CCKey, 0, len(cuentas))
	for k := range cuentas {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Proveedor != keys[j].Proveedor {
			return keys[i].Proveedor < keys[j].Proveedor
		}
		return keys[i].Moneda < keys[j].Moneda
	})

	pdf.SetFont("Helvetica", "", 9)
	for _, k := range keys {
		cta := cuentas[k]
		estado := "Saldada"
		if cta.DebeUsuario.IsPositive() {
			estado = "Debe usuario"
		} else if cta.DebeProveedor.IsPositive() {
			estado = "Debe proveedor"
		}
		pdf.CellFormat(colProv, 6, k.Proveedor, "", 0, "L", false, 0, "")
		pdf.CellFormat(colMon, 6, k.Moneda, "", 0, "L", false, 0, "")
		pdf.CellFormat(colCC, 6, cta.Ingresos.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colCC, 6, cta.Egresos.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colCC, 6, cta.Saldo.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colCC, 6, estado, "", 1, "C", false, 0, "")
	}
	if len(keys) == 0 {
		pdf.CellFormat(contentW, 6, "Sin cuentas corrientes", "", 1, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
