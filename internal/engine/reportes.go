package engine

import (
	"time"

	"casacambios/internal/model"

	"github.com/shopspring/decimal"
)

// heuristicaRentabilidad is the fallback profitability estimate applied
// to a sale that carries neither a computed profit nor commission data:
// 1.5% of the operated volume. This is an inherited business
// approximation, not exact financial math — callers must present these
// figures as estimates (PeriodoRentabilidad.Estimada).
var heuristicaRentabilidad = decimal.NewFromFloat(0.015)

// ResumenComisiones groups commission totals along every axis the
// back-office displays. All maps key amounts by currency code.
type ResumenComisiones struct {
	PorMoneda    map[string]decimal.Decimal                 `json:"por_moneda"`
	PorProveedor map[string]map[string]decimal.Decimal      `json:"por_proveedor"`
	PorOperacion map[model.Operacion]map[string]decimal.Decimal `json:"por_operacion"`
	PorDia       map[string]map[string]decimal.Decimal      `json:"por_dia"`
	PorMes       map[string]map[string]decimal.Decimal      `json:"por_mes"`
}

// ComisionesTotales sums the comision field of every movement that
// carries one, excluding ARBITRAJE rows (their spread is profit, not
// commission). Provider grouping applies to CUENTAS_CORRIENTES only.
func ComisionesTotales(movs []model.Movimiento) ResumenComisiones {
	r := ResumenComisiones{
		PorMoneda:    make(map[string]decimal.Decimal),
		PorProveedor: make(map[string]map[string]decimal.Decimal),
		PorOperacion: make(map[model.Operacion]map[string]decimal.Decimal),
		PorDia:       make(map[string]map[string]decimal.Decimal),
		PorMes:       make(map[string]map[string]decimal.Decimal),
	}

	for _, m := range movs {
		if !m.Comision.IsPositive() || m.SubOperacion == model.SubArbitraje {
			continue
		}
		moneda := m.MonedaComision
		if moneda == "" {
			moneda = m.Moneda
		}

		r.PorMoneda[moneda] = r.PorMoneda[moneda].Add(m.Comision)
		sumar(r.PorOperacion, m.Operacion, moneda, m.Comision)
		sumar(r.PorDia, m.Fecha.Format("2006-01-02"), moneda, m.Comision)
		sumar(r.PorMes, m.Fecha.Format("2006-01"), moneda, m.Comision)

		if m.Operacion == model.OpCuentasCorrientes && m.ProveedorCC != "" {
			sumar(r.PorProveedor, m.ProveedorCC, moneda, m.Comision)
		}
	}
	return r
}

// ResumenArbitraje aggregates arbitrage profit per currency and month.
type ResumenArbitraje struct {
	PorMoneda   map[string]decimal.Decimal            `json:"por_moneda"`
	PorMes      map[string]map[string]decimal.Decimal `json:"por_mes"`
	Operaciones int                                   `json:"operaciones"`
}

// GananciaArbitraje computes per-currency arbitrage profit for
// top-level TRANSACCIONES ARBITRAJE rows (the CC variant only moves
// ledger legs, profit is not realized there). Per operation:
// profit = montoVenta*tcVenta − monto*tc, keyed by monedaProfit with
// monedaTC as the fallback.
func GananciaArbitraje(movs []model.Movimiento) ResumenArbitraje {
	r := ResumenArbitraje{
		PorMoneda: make(map[string]decimal.Decimal),
		PorMes:    make(map[string]map[string]decimal.Decimal),
	}
	for _, m := range movs {
		if m.Operacion != model.OpTransacciones || m.SubOperacion != model.SubArbitraje {
			continue
		}
		totalCompra := m.Monto.Mul(m.TC)
		totalVenta := m.MontoVenta.Mul(m.TCVenta)
		ganancia := totalVenta.Sub(totalCompra)

		moneda := m.MonedaProfit
		if moneda == "" {
			moneda = m.MonedaTC
		}
		if moneda == "" {
			continue // no resolvable currency bucket: omit, never raise
		}
		r.PorMoneda[moneda] = r.PorMoneda[moneda].Add(ganancia)
		sumar(r.PorMes, m.Fecha.Format("2006-01"), moneda, ganancia)
		r.Operaciones++
	}
	return r
}

// PeriodoRentabilidad is one side of the period-over-period comparison.
// Estimada is true when at least one row fell back to the 1.5% volume
// heuristic instead of engine-computed profit.
type PeriodoRentabilidad struct {
	Desde             string                     `json:"desde"`
	Hasta             string                     `json:"hasta"`
	UtilidadPorMoneda map[string]decimal.Decimal `json:"utilidad_por_moneda"`
	VolumenPorMoneda  map[string]decimal.Decimal `json:"volumen_por_moneda"`
	Estimada          bool                       `json:"estimada"`
}

// ResumenRentabilidad compares the requested period against the
// immediately preceding period of equal length.
type ResumenRentabilidad struct {
	Actual       PeriodoRentabilidad        `json:"actual"`
	Anterior     PeriodoRentabilidad        `json:"anterior"`
	VariacionPct map[string]decimal.Decimal `json:"variacion_pct"`
}

// ComputeRentabilidad reduces the engine-annotated movement list over
// [desde, hasta) and the preceding period of equal length. COMPRA/VENTA
// rows use gananciaCalculada when the stock engine produced one, then
// the movement's commission, and as a last resort the documented 1.5%
// volume heuristic.
func ComputeRentabilidad(procesados []MovimientoProcesado, desde, hasta time.Time) ResumenRentabilidad {
	duracion := hasta.Sub(desde)
	actual := foldRentabilidad(procesados, desde, hasta)
	anterior := foldRentabilidad(procesados, desde.Add(-duracion), desde)

	variacion := make(map[string]decimal.Decimal)
	for moneda, utilidad := range actual.UtilidadPorMoneda {
		previa, ok := anterior.UtilidadPorMoneda[moneda]
		if !ok || previa.IsZero() {
			continue
		}
		variacion[moneda] = utilidad.Sub(previa).
			Div(previa.Abs()).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return ResumenRentabilidad{Actual: actual, Anterior: anterior, VariacionPct: variacion}
}

func foldRentabilidad(procesados []MovimientoProcesado, desde, hasta time.Time) PeriodoRentabilidad {
	p := PeriodoRentabilidad{
		Desde:             desde.Format("2006-01-02"),
		Hasta:             hasta.Format("2006-01-02"),
		UtilidadPorMoneda: make(map[string]decimal.Decimal),
		VolumenPorMoneda:  make(map[string]decimal.Decimal),
	}

	for _, m := range procesados {
		if m.Fecha.Before(desde) || !m.Fecha.Before(hasta) {
			continue
		}
		if m.Operacion != model.OpTransacciones {
			continue
		}
		if m.SubOperacion != model.SubCompra && m.SubOperacion != model.SubVenta {
			continue
		}

		moneda := m.MonedaTC
		if moneda == "" {
			moneda = m.Moneda
		}
		volumen := totalDe(m.Movimiento)
		p.VolumenPorMoneda[moneda] = p.VolumenPorMoneda[moneda].Add(volumen)

		switch {
		case !m.GananciaCalculada.IsZero():
			p.UtilidadPorMoneda[moneda] = p.UtilidadPorMoneda[moneda].Add(m.GananciaCalculada)
		case m.Comision.IsPositive():
			p.UtilidadPorMoneda[moneda] = p.UtilidadPorMoneda[moneda].Add(m.Comision)
		case m.SubOperacion == model.SubVenta:
			p.UtilidadPorMoneda[moneda] = p.UtilidadPorMoneda[moneda].Add(volumen.Mul(heuristicaRentabilidad))
			p.Estimada = true
		}
	}
	return p
}

// sumar accumulates into a two-level map keyed by group then currency.
func sumar[K comparable](dest map[K]map[string]decimal.Decimal, key K, moneda string, monto decimal.Decimal) {
	if dest[key] == nil {
		dest[key] = make(map[string]decimal.Decimal)
	}
	dest[key][moneda] = dest[key][moneda].Add(monto)
}
