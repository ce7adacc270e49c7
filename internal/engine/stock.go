package engine

import (
	"fmt"
	"sort"

	"casacambios/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockEntry is the running weighted-average-cost position for one
// currency. CostoPromedio is expressed in the currency's paired TC
// currency, the same unit as TotalCostoEnMonedaTC.
type StockEntry struct {
	Cantidad             decimal.Decimal `json:"cantidad"`
	CostoPromedio        decimal.Decimal `json:"costo_promedio"`
	TotalCostoEnMonedaTC decimal.Decimal `json:"total_costo_en_moneda_tc"`
}

// Warning flags a soft condition found while folding. Computation never
// aborts on these; callers surface them for audit visibility.
type Warning struct {
	MovimientoID uuid.UUID `json:"movimiento_id"`
	Moneda       string    `json:"moneda"`
	Codigo       string    `json:"codigo"`
	Detalle      string    `json:"detalle"`
}

const WarnStockInsuficiente = "stock_insuficiente"

// MovimientoProcesado carries a movement together with the realized
// profit attached by the stock engine (populated on VENTA rows only).
type MovimientoProcesado struct {
	model.Movimiento
	GananciaCalculada decimal.Decimal `json:"ganancia_calculada"`
}

// ComputeStock recomputes the per-currency WAC position from the full
// movement history. Only TRANSACCIONES COMPRA/VENTA rows participate;
// ARBITRAJE is excluded by business rule (its profit is a separate
// computation, see GananciaArbitraje).
func ComputeStock(movs []model.Movimiento) (map[string]StockEntry, []Warning) {
	stocks, _, warnings := foldStock(movs)
	return stocks, warnings
}

// ComputeProcesados returns the chronologically sorted movement list
// with each sale's realized profit attached, for downstream reducers.
func ComputeProcesados(movs []model.Movimiento) ([]MovimientoProcesado, []Warning) {
	_, procesados, warnings := foldStock(movs)
	return procesados, warnings
}

// cuentaStock is the per-currency fold accumulator.
type cuentaStock struct {
	cantidad   decimal.Decimal
	totalCosto decimal.Decimal
}

func (c cuentaStock) costoPromedio() decimal.Decimal {
	if c.cantidad.IsZero() {
		return decimal.Zero
	}
	return c.totalCosto.Div(c.cantidad)
}

func foldStock(movs []model.Movimiento) (map[string]StockEntry, []MovimientoProcesado, []Warning) {
	ordered := sortCronologico(movs)

	acc := make(map[string]cuentaStock)
	procesados := make([]MovimientoProcesado, 0, len(ordered))
	var warnings []Warning

	for _, m := range ordered {
		p := MovimientoProcesado{Movimiento: m}

		if m.Operacion == model.OpTransacciones {
			switch m.SubOperacion {
			case model.SubCompra:
				cta := acc[m.Moneda]
				cta.cantidad = cta.cantidad.Add(m.Monto)
				cta.totalCosto = cta.totalCosto.Add(totalDe(m))
				acc[m.Moneda] = cta

			case model.SubVenta:
				cta := acc[m.Moneda]
				unitario := cta.costoPromedio()
				vendida := m.Monto
				ingreso := totalDe(m)

				if m.Monto.GreaterThan(cta.cantidad) {
					// Insufficient stock: clamp to what we hold and
					// prorate the revenue by available/requested.
					vendida = cta.cantidad
					if m.Monto.IsPositive() {
						ingreso = ingreso.Mul(vendida).Div(m.Monto)
					} else {
						ingreso = decimal.Zero
					}
					warnings = append(warnings, Warning{
						MovimientoID: m.ID,
						Moneda:       m.Moneda,
						Codigo:       WarnStockInsuficiente,
						Detalle: fmt.Sprintf(
							"venta de %s %s con stock disponible %s: se prorratea",
							m.Monto, m.Moneda, cta.cantidad),
					})
				}

				costoVendido := vendida.Mul(unitario)
				p.GananciaCalculada = ingreso.Sub(costoVendido)

				cta.cantidad = cta.cantidad.Sub(vendida)
				cta.totalCosto = cta.totalCosto.Sub(costoVendido)
				// Floor at zero so rounding can never leave phantom
				// negative stock.
				if cta.cantidad.IsNegative() {
					cta.cantidad = decimal.Zero
				}
				if cta.totalCosto.IsNegative() {
					cta.totalCosto = decimal.Zero
				}
				acc[m.Moneda] = cta

			case model.SubArbitraje:
				// Excluded from the historical WAC fold.
			}
		}

		procesados = append(procesados, p)
	}

	stocks := make(map[string]StockEntry, len(acc))
	for moneda, cta := range acc {
		stocks[moneda] = StockEntry{
			Cantidad:             cta.cantidad,
			CostoPromedio:        cta.costoPromedio(),
			TotalCostoEnMonedaTC: cta.totalCosto,
		}
	}
	return stocks, procesados, warnings
}

// sortCronologico returns a copy sorted ascending by fecha. Same-day
// rows keep their original order; the repository lists movements by
// (fecha, created_at, id) so insertion order is the tie-break contract.
func sortCronologico(movs []model.Movimiento) []model.Movimiento {
	ordered := make([]model.Movimiento, len(movs))
	copy(ordered, movs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Fecha.Before(ordered[j].Fecha)
	})
	return ordered
}

// totalDe returns the movement total, falling back to monto*tc when the
// stored total was left empty and there is no mixed-payment split.
func totalDe(m model.Movimiento) decimal.Decimal {
	if !m.Total.IsZero() || m.PagoMixto {
		return m.Total
	}
	return m.Monto.Mul(m.TC)
}
