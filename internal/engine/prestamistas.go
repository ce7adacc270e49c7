package engine

import (
	"math"
	"time"

	"casacambios/internal/model"

	"github.com/shopspring/decimal"
)

var diasAnio = decimal.NewFromInt(365)

// LenderBalance is the derived position with one lender in one currency.
//
// Display polarity: NetoBalance carries the same debt-direction
// semantics as the CC ledger, so a NEGATIVE net means the lender owes
// us and a POSITIVE net means we owe the lender. The UI depends on this
// exact sign; do not "fix" it to the naive reading.
type LenderBalance struct {
	Principal          decimal.Decimal `json:"principal"`
	InteresAcumulado   decimal.Decimal `json:"interes_acumulado"`
	TasaVigente        decimal.Decimal `json:"tasa_vigente"`
	UltimaFechaCalculo time.Time       `json:"ultima_fecha_calculo"`
}

// NetoBalance is principal plus accrued interest.
func (b LenderBalance) NetoBalance() decimal.Decimal {
	return b.Principal.Add(b.InteresAcumulado)
}

// ComputeLenderBalances folds one lender's PRESTAMISTAS movements into
// per-currency balances with simple interest accrued chronologically:
// before each event for the elapsed whole days (ceil), and once more
// from the last event up to now for the live snapshot.
//
// Rate changes attached to a PRESTAMO apply going forward only. A
// RETIRO consumes accrued interest before it reduces principal, which
// is floored at zero.
func ComputeLenderBalances(movs []model.Movimiento, now time.Time) map[string]LenderBalance {
	saldos := make(map[string]LenderBalance)

	for _, m := range sortCronologico(movs) {
		if m.Operacion != model.OpPrestamistas {
			continue
		}

		b, existe := saldos[m.Moneda]
		if existe {
			b.InteresAcumulado = b.InteresAcumulado.Add(interesSimple(b, m.Fecha))
		}

		switch m.SubOperacion {
		case model.SubPrestamo:
			b.Principal = b.Principal.Add(m.Monto)
			if m.Interes.IsPositive() {
				b.TasaVigente = m.Interes
			}
		case model.SubRetiro:
			// Interest is paid out before principal.
			retiro := m.Monto
			if retiro.LessThanOrEqual(b.InteresAcumulado) {
				b.InteresAcumulado = b.InteresAcumulado.Sub(retiro)
			} else {
				resto := retiro.Sub(b.InteresAcumulado)
				b.InteresAcumulado = decimal.Zero
				b.Principal = b.Principal.Sub(resto)
				if b.Principal.IsNegative() {
					b.Principal = decimal.Zero
				}
			}
		default:
			continue
		}

		b.UltimaFechaCalculo = m.Fecha
		saldos[m.Moneda] = b
	}

	// Final accrual from the last event to "now" for the live snapshot.
	for moneda, b := range saldos {
		b.InteresAcumulado = b.InteresAcumulado.Add(interesSimple(b, now))
		saldos[moneda] = b
	}
	return saldos
}

// interesSimple returns principal * (rate/100/365) * elapsed whole days
// between the balance's last calculation date and hasta. Zero when the
// principal or the rate is not positive, or time did not move forward.
func interesSimple(b LenderBalance, hasta time.Time) decimal.Decimal {
	if !b.Principal.IsPositive() || !b.TasaVigente.IsPositive() {
		return decimal.Zero
	}
	if !hasta.After(b.UltimaFechaCalculo) {
		return decimal.Zero
	}
	dias := int64(math.Ceil(hasta.Sub(b.UltimaFechaCalculo).Hours() / 24))
	if dias <= 0 {
		return decimal.Zero
	}
	return b.Principal.
		Mul(b.TasaVigente).
		Div(decimal.NewFromInt(100)).
		Div(diasAnio).
		Mul(decimal.NewFromInt(dias))
}
