package engine

import (
	"testing"

	"casacambios/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComisionesTotales_AgrupaPorMoneda(t *testing.T) {
	m1 := compra("2026-04-01", "USD", 100, 1000)
	m1.Comision = dec(50)
	m1.MonedaComision = "ARS"

	m2 := movCC("2026-04-02", model.SubIngreso, "proveedorA", "ARS", 300)
	m2.Comision = dec(30)

	sinComision := compra("2026-04-03", "USD", 10, 1000)

	r := ComisionesTotales([]model.Movimiento{m1, m2, sinComision})

	assertDecEq(t, dec(80), r.PorMoneda["ARS"])
	assertDecEq(t, dec(50), r.PorOperacion[model.OpTransacciones]["ARS"])
	assertDecEq(t, dec(30), r.PorOperacion[model.OpCuentasCorrientes]["ARS"])
	assertDecEq(t, dec(30), r.PorProveedor["proveedorA"]["ARS"])
}

func TestComisionesTotales_ExcluyeArbitraje(t *testing.T) {
	arb := compra("2026-04-01", "USD", 100, 1000)
	arb.SubOperacion = model.SubArbitraje
	arb.Comision = dec(99)

	r := ComisionesTotales([]model.Movimiento{arb})
	assert.Empty(t, r.PorMoneda)
}

func TestComisionesTotales_CortesDiariosYMensuales(t *testing.T) {
	m1 := compra("2026-04-01", "USD", 100, 1000)
	m1.Comision = dec(10)
	m1.MonedaComision = "ARS"
	m2 := compra("2026-04-15", "USD", 100, 1000)
	m2.Comision = dec(20)
	m2.MonedaComision = "ARS"
	m3 := compra("2026-05-01", "USD", 100, 1000)
	m3.Comision = dec(40)
	m3.MonedaComision = "ARS"

	r := ComisionesTotales([]model.Movimiento{m1, m2, m3})

	assertDecEq(t, dec(10), r.PorDia["2026-04-01"]["ARS"])
	assertDecEq(t, dec(30), r.PorMes["2026-04"]["ARS"])
	assertDecEq(t, dec(40), r.PorMes["2026-05"]["ARS"])
}

func TestGananciaArbitraje(t *testing.T) {
	// Buy 100 @1000, sell 100 @1050 → profit 5000 ARS.
	m := compra("2026-04-10", "USD", 100, 1000)
	m.SubOperacion = model.SubArbitraje
	m.MontoVenta = dec(100)
	m.TCVenta = dec(1050)
	m.MonedaTCVenta = "ARS"

	r := GananciaArbitraje([]model.Movimiento{m})
	assert.Equal(t, 1, r.Operaciones)
	assertDecEq(t, dec(5000), r.PorMoneda["ARS"])
	assertDecEq(t, dec(5000), r.PorMes["2026-04"]["ARS"])
}

func TestGananciaArbitraje_MonedaProfitExplicita(t *testing.T) {
	m := compra("2026-04-10", "USD", 100, 1000)
	m.SubOperacion = model.SubArbitraje
	m.MontoVenta = dec(100)
	m.TCVenta = dec(1020)
	m.MonedaTCVenta = "ARS"
	m.MonedaProfit = "USDT"

	r := GananciaArbitraje([]model.Movimiento{m})
	assertDecEq(t, dec(2000), r.PorMoneda["USDT"])
}

func TestGananciaArbitraje_IgnoraCCyNoArbitraje(t *testing.T) {
	cc := movCC("2026-04-10", model.SubArbitraje, "proveedorA", "USD", 100)
	normal := compra("2026-04-10", "USD", 100, 1000)
	r := GananciaArbitraje([]model.Movimiento{cc, normal})
	assert.Zero(t, r.Operaciones)
	assert.Empty(t, r.PorMoneda)
}

func TestComputeRentabilidad_UsaGananciaCalculada(t *testing.T) {
	procesados, _ := ComputeProcesados([]model.Movimiento{
		compra("2026-04-01", "USD", 100, 1000),
		venta("2026-04-10", "USD", 40, 1200),
	})

	r := ComputeRentabilidad(procesados, fecha("2026-04-01"), fecha("2026-05-01"))
	assertDecEq(t, dec(8000), r.Actual.UtilidadPorMoneda["ARS"])
	assert.False(t, r.Actual.Estimada)
}

func TestComputeRentabilidad_FallbackHeuristico(t *testing.T) {
	// A sale with no stock history computes zero profit and carries no
	// commission: the documented 1.5%-of-volume estimate kicks in and
	// the period is flagged as estimated.
	v := venta("2026-04-10", "USD", 40, 1200)
	procesados := []MovimientoProcesado{{Movimiento: v}}

	r := ComputeRentabilidad(procesados, fecha("2026-04-01"), fecha("2026-05-01"))
	assert.True(t, r.Actual.Estimada)
	assertDecEq(t, dec(48000).Mul(heuristicaRentabilidad), r.Actual.UtilidadPorMoneda["ARS"])
}

func TestComputeRentabilidad_ComparaPeriodoAnterior(t *testing.T) {
	procesados, _ := ComputeProcesados([]model.Movimiento{
		compra("2026-03-01", "USD", 100, 1000),
		venta("2026-03-10", "USD", 10, 1100), // March profit: 1000
		venta("2026-04-10", "USD", 10, 1200), // April profit: 2000
	})

	r := ComputeRentabilidad(procesados, fecha("2026-04-01"), fecha("2026-05-01"))
	require.NotNil(t, r.Anterior.UtilidadPorMoneda)
	assertDecEq(t, dec(2000), r.Actual.UtilidadPorMoneda["ARS"])
	assertDecEq(t, dec(1000), r.Anterior.UtilidadPorMoneda["ARS"])
	assertDecEq(t, dec(100), r.VariacionPct["ARS"])
}

func TestComputeRentabilidad_SinDatosNoRevienta(t *testing.T) {
	r := ComputeRentabilidad(nil, fecha("2026-04-01"), fecha("2026-05-01"))
	assert.Empty(t, r.Actual.UtilidadPorMoneda)
	assert.Empty(t, r.VariacionPct)
}

func TestComputeRentabilidad_NoMutaEntrada(t *testing.T) {
	v := venta("2026-04-10", "USD", 40, 1200)
	procesados := []MovimientoProcesado{{Movimiento: v, GananciaCalculada: dec(8000)}}
	antes := procesados[0].GananciaCalculada

	_ = ComputeRentabilidad(procesados, fecha("2026-04-01"), fecha("2026-05-01"))
	assert.True(t, antes.Equal(procesados[0].GananciaCalculada))
}

func TestSumar_AcumulaNiveles(t *testing.T) {
	dest := make(map[string]map[string]decimal.Decimal)
	sumar(dest, "2026-04", "ARS", dec(10))
	sumar(dest, "2026-04", "ARS", dec(5))
	sumar(dest, "2026-04", "USD", dec(1))
	assertDecEq(t, dec(15), dest["2026-04"]["ARS"])
	assertDecEq(t, dec(1), dest["2026-04"]["USD"])
}
