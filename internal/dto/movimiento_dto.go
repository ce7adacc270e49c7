package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// MovimientoFilter is bound from the query string of GET /v1/movimientos.
type MovimientoFilter struct {
	Desde        string `form:"desde"`
	Hasta        string `form:"hasta"`
	Operacion    string `form:"operacion"`
	SubOperacion string `form:"sub_operacion"`
	ClienteID    string `form:"cliente_id"   validate:"omitempty,uuid"`
	ProveedorCC  string `form:"proveedor_cc"`
	Estado       string `form:"estado"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearMovimientoRequest carries every field a movement can take; the
// service validates the operacion/sub_operacion combination against the
// closed enum set and the total against monto*tc (unless pago_mixto).
type CrearMovimientoRequest struct {
	Fecha        string `json:"fecha"         validate:"required,datetime=2006-01-02"`
	ClienteID    string `json:"cliente_id"    validate:"omitempty,uuid"`
	Operacion    string `json:"operacion"     validate:"required"`
	SubOperacion string `json:"sub_operacion" validate:"required"`

	Moneda   string          `json:"moneda" validate:"required"`
	Monto    decimal.Decimal `json:"monto"  validate:"required"`
	TC       decimal.Decimal `json:"tc"`
	MonedaTC string          `json:"moneda_tc"`
	Total    decimal.Decimal `json:"total"`

	Comision       decimal.Decimal `json:"comision"`
	MonedaComision string          `json:"moneda_comision"`

	ProveedorCC string          `json:"proveedor_cc"`
	Interes     decimal.Decimal `json:"interes"`

	MontoVenta    decimal.Decimal `json:"monto_venta"`
	TCVenta       decimal.Decimal `json:"tc_venta"`
	MonedaTCVenta string          `json:"moneda_tc_venta"`
	MonedaProfit  string          `json:"moneda_profit"`

	Cuenta    string `json:"cuenta"`
	Socio     string `json:"socio"`
	PagoMixto bool   `json:"pago_mixto"`
}

type ActualizarMovimientoRequest struct {
	CrearMovimientoRequest
	Estado string `json:"estado" validate:"omitempty,oneof=confirmado pendiente anulado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID           string `json:"id"`
	Fecha        string `json:"fecha"`
	ClienteID    string `json:"cliente_id,omitempty"`
	ClienteNombre string `json:"cliente_nombre,omitempty"`
	Operacion    string `json:"operacion"`
	SubOperacion string `json:"sub_operacion"`

	Moneda   string          `json:"moneda"`
	Monto    decimal.Decimal `json:"monto"`
	TC       decimal.Decimal `json:"tc"`
	MonedaTC string          `json:"moneda_tc,omitempty"`
	Total    decimal.Decimal `json:"total"`

	Comision       decimal.Decimal `json:"comision"`
	MonedaComision string          `json:"moneda_comision,omitempty"`

	ProveedorCC string          `json:"proveedor_cc,omitempty"`
	Interes     decimal.Decimal `json:"interes"`

	MontoVenta    decimal.Decimal `json:"monto_venta"`
	TCVenta       decimal.Decimal `json:"tc_venta"`
	MonedaTCVenta string          `json:"moneda_tc_venta,omitempty"`
	MonedaProfit  string          `json:"moneda_profit,omitempty"`

	Estado    string `json:"estado"`
	Cuenta    string `json:"cuenta,omitempty"`
	Socio     string `json:"socio,omitempty"`
	PagoMixto bool   `json:"pago_mixto"`
	CreatedAt string `json:"created_at"`
}
