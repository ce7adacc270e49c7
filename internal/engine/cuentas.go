package engine

import (
	"casacambios/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CCKey identifies one current-account ledger bucket.
type CCKey struct {
	Proveedor string `json:"proveedor"`
	Moneda    string `json:"moneda"`
}

// CCAccount is the derived signed position with one provider in one
// currency. Saldo sign convention: negative = we owe the provider,
// positive = the provider owes us.
type CCAccount struct {
	Ingresos            decimal.Decimal `json:"ingresos"`
	Egresos             decimal.Decimal `json:"egresos"`
	Saldo               decimal.Decimal `json:"saldo"`
	ComisionesGeneradas decimal.Decimal `json:"comisiones_generadas"`
	MovimientosCount    int             `json:"movimientos_count"`

	// Derived classification of Saldo for display.
	DebeUsuario   decimal.Decimal `json:"debe_usuario"`
	DebeProveedor decimal.Decimal `json:"debe_proveedor"`
}

// ComputeCCBalances folds CUENTAS_CORRIENTES movements into signed
// per (provider, currency) positions. Seeds are applied before the fold
// and never touch the WAC stock engine.
//
// Sign rules (exact, per the established back-office convention):
//
//	INGRESO  — provider hands us money  → saldo -= monto
//	EGRESO   — we pay the provider      → saldo += monto
//	COMPRA   — we pay the TC leg (+total) and receive the moneda leg (-monto)
//	VENTA    — we deliver the moneda leg (+monto) and receive the TC leg (-total)
//	ARBITRAJE — COMPRA legs then VENTA legs, four entries in total
//
// Commissions accrue separately into the (provider, commission-currency)
// bucket, at most once per movement id: the "already counted" set is
// derived fresh on every fold, so recomputation is idempotent and the
// input is never mutated.
func ComputeCCBalances(movs []model.Movimiento, iniciales map[CCKey]decimal.Decimal) map[CCKey]CCAccount {
	cuentas := make(map[CCKey]CCAccount)
	for key, monto := range iniciales {
		cta := cuentas[key]
		cta.Saldo = cta.Saldo.Add(monto)
		cuentas[key] = cta
	}

	aplicar := func(key CCKey, delta decimal.Decimal) {
		if key.Proveedor == "" || key.Moneda == "" {
			return // unknown leg: omitted, never an error
		}
		cta := cuentas[key]
		cta.Saldo = cta.Saldo.Add(delta)
		cuentas[key] = cta
	}

	comisionadas := make(map[uuid.UUID]bool)

	for _, m := range sortCronologico(movs) {
		if m.Operacion != model.OpCuentasCorrientes || m.ProveedorCC == "" {
			continue
		}

		principal := CCKey{Proveedor: m.ProveedorCC, Moneda: m.Moneda}

		switch m.SubOperacion {
		case model.SubIngreso:
			cta := cuentas[principal]
			cta.Ingresos = cta.Ingresos.Add(m.Monto)
			cuentas[principal] = cta
			aplicar(principal, m.Monto.Neg())

		case model.SubEgreso:
			cta := cuentas[principal]
			cta.Egresos = cta.Egresos.Add(m.Monto)
			cuentas[principal] = cta
			aplicar(principal, m.Monto)

		case model.SubCompra:
			// Pay the monedaTC leg, receive the moneda leg.
			aplicar(CCKey{m.ProveedorCC, m.MonedaTC}, totalDe(m))
			aplicar(principal, m.Monto.Neg())

		case model.SubVenta:
			// Mirror of COMPRA.
			aplicar(principal, m.Monto)
			aplicar(CCKey{m.ProveedorCC, m.MonedaTC}, totalDe(m).Neg())

		case model.SubArbitraje:
			// Buy leg.
			aplicar(CCKey{m.ProveedorCC, m.MonedaTC}, totalDe(m))
			aplicar(principal, m.Monto.Neg())
			// Sell leg.
			aplicar(principal, m.MontoVenta)
			aplicar(CCKey{m.ProveedorCC, m.MonedaTCVenta}, m.MontoVenta.Mul(m.TCVenta).Neg())
		}

		if m.Comision.IsPositive() && !comisionadas[m.ID] {
			comisionadas[m.ID] = true
			monedaCom := m.MonedaComision
			if monedaCom == "" {
				monedaCom = m.Moneda
			}
			keyCom := CCKey{Proveedor: m.ProveedorCC, Moneda: monedaCom}
			cta := cuentas[keyCom]
			cta.ComisionesGeneradas = cta.ComisionesGeneradas.Add(m.Comision)
			cuentas[keyCom] = cta
		}

		cta := cuentas[principal]
		cta.MovimientosCount++
		cuentas[principal] = cta
	}

	for key, cta := range cuentas {
		switch {
		case cta.Saldo.IsNegative():
			cta.DebeUsuario = cta.Saldo.Abs()
		case cta.Saldo.IsPositive():
			cta.DebeProveedor = cta.Saldo
		}
		cuentas[key] = cta
	}
	return cuentas
}
