package dto

import (
	"casacambios/internal/engine"

	"github.com/shopspring/decimal"
)

// Report responses expose the engine's derived maps directly — numbers
// keyed by currency code, ISO dates for time buckets — plus the warning
// list so soft conditions stay visible to auditors.

type ReporteStockResponse struct {
	Stock      map[string]engine.StockEntry `json:"stock"`
	Warnings   []engine.Warning             `json:"warnings"`
	Calculado  string                       `json:"calculado"` // RFC3339
	Movimientos int                         `json:"movimientos"`
}

type CCAccountResponse struct {
	Proveedor string          `json:"proveedor"`
	Moneda    string          `json:"moneda"`
	Cuenta    engine.CCAccount `json:"cuenta"`
}

type ReporteCCResponse struct {
	Cuentas   []CCAccountResponse `json:"cuentas"`
	Calculado string              `json:"calculado"`
}

type LenderBalanceResponse struct {
	Moneda           string          `json:"moneda"`
	Principal        decimal.Decimal `json:"principal"`
	InteresAcumulado decimal.Decimal `json:"interes_acumulado"`
	TasaVigente      decimal.Decimal `json:"tasa_vigente"`
	NetoBalance      decimal.Decimal `json:"neto_balance"`
}

type ReportePrestamistaResponse struct {
	ClienteID string                  `json:"cliente_id"`
	Cliente   string                  `json:"cliente"`
	Saldos    []LenderBalanceResponse `json:"saldos"`
	Calculado string                  `json:"calculado"`
}

type ReporteComisionesResponse struct {
	Resumen   engine.ResumenComisiones `json:"resumen"`
	Calculado string                   `json:"calculado"`
}

type ReporteArbitrajeResponse struct {
	Resumen   engine.ResumenArbitraje `json:"resumen"`
	Calculado string                  `json:"calculado"`
}

// RentabilidadFilter is bound from the query string.
type RentabilidadFilter struct {
	Desde string `form:"desde" validate:"required,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"required,datetime=2006-01-02"`
}

type ReporteRentabilidadResponse struct {
	Resumen engine.ResumenRentabilidad `json:"resumen"`
	// Estimada repeats Actual.Estimada at the top level: when true the
	// figures include the 1.5%-of-volume approximation and must be
	// presented as estimates, not exact results.
	Estimada  bool   `json:"estimada"`
	Calculado string `json:"calculado"`
}
