package dto

import "github.com/shopspring/decimal"

type GuardarSaldoRequest struct {
	Tipo    string          `json:"tipo"    validate:"required,oneof=cuenta proveedor_cc"`
	Entidad string          `json:"entidad" validate:"required"`
	Moneda  string          `json:"moneda"  validate:"required"`
	Monto   decimal.Decimal `json:"monto"`
}

type SaldoResponse struct {
	Clave   string          `json:"clave"` // "{entidad}-{moneda}"
	Tipo    string          `json:"tipo"`
	Entidad string          `json:"entidad"`
	Moneda  string          `json:"moneda"`
	Monto   decimal.Decimal `json:"monto"`
}
