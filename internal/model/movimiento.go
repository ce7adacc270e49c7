package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Operacion is the closed set of top-level operation categories.
// Free-string matching is forbidden past the handler boundary: every
// movement is validated against this set before it reaches the engine.
type Operacion string

const (
	OpTransacciones     Operacion = "TRANSACCIONES"
	OpCuentasCorrientes Operacion = "CUENTAS_CORRIENTES"
	OpSocios            Operacion = "SOCIOS"
	OpPrestamistas      Operacion = "PRESTAMISTAS"
	OpAdministrativas   Operacion = "ADMINISTRATIVAS"
	OpInternas          Operacion = "INTERNAS"
)

// SubOperacion qualifies an Operacion; the valid combinations are listed
// in SubOperacionesPermitidas.
type SubOperacion string

const (
	SubCompra        SubOperacion = "COMPRA"
	SubVenta         SubOperacion = "VENTA"
	SubArbitraje     SubOperacion = "ARBITRAJE"
	SubIngreso       SubOperacion = "INGRESO"
	SubEgreso        SubOperacion = "EGRESO"
	SubPrestamo      SubOperacion = "PRESTAMO"
	SubRetiro        SubOperacion = "RETIRO"
	SubTransferencia SubOperacion = "TRANSFERENCIA"
	SubAjuste        SubOperacion = "AJUSTE"
	SubGasto         SubOperacion = "GASTO"
)

// SubOperacionesPermitidas maps each operation category to its allowed
// sub-operations. An empty movement sub-operation is never valid.
var SubOperacionesPermitidas = map[Operacion][]SubOperacion{
	OpTransacciones:     {SubCompra, SubVenta, SubArbitraje},
	OpCuentasCorrientes: {SubIngreso, SubEgreso, SubCompra, SubVenta, SubArbitraje},
	OpSocios:            {SubIngreso, SubRetiro, SubPrestamo},
	OpPrestamistas:      {SubPrestamo, SubRetiro},
	OpAdministrativas:   {SubAjuste, SubGasto},
	OpInternas:          {SubTransferencia},
}

// Valida reports whether the operation belongs to the closed set.
func (o Operacion) Valida() bool {
	_, ok := SubOperacionesPermitidas[o]
	return ok
}

// PermiteSub reports whether s is an allowed sub-operation for o.
func (o Operacion) PermiteSub(s SubOperacion) bool {
	for _, allowed := range SubOperacionesPermitidas[o] {
		if allowed == s {
			return true
		}
	}
	return false
}

// Movimiento is a single recorded exchange-house transaction. It is the
// only source of truth: stock, current-account and lender balances are
// all re-derived from the full chronological movement history.
//
// Total is monto*tc except for mixed payments (PagoMixto), where it is
// the sum of the split amounts declared by the operator.
//
// The MontoVenta/TCVenta/MonedaTCVenta/MonedaProfit group is only
// populated for ARBITRAJE movements (the sell leg of the pair).
type Movimiento struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha        time.Time  `gorm:"type:date;not null;index"`
	ClienteID    *uuid.UUID `gorm:"type:uuid;index"`
	Operacion    Operacion  `gorm:"type:varchar(30);not null;index"`
	SubOperacion SubOperacion `gorm:"type:varchar(30);not null"`

	Moneda   string          `gorm:"type:varchar(10);not null"`
	Monto    decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	TC       decimal.Decimal `gorm:"type:decimal(18,6)"`
	MonedaTC string          `gorm:"type:varchar(10)"`
	Total    decimal.Decimal `gorm:"type:decimal(18,6)"`

	Comision       decimal.Decimal `gorm:"type:decimal(18,6)"`
	MonedaComision string          `gorm:"type:varchar(10)"`

	// ProveedorCC identifies the counterparty for CUENTAS_CORRIENTES rows.
	ProveedorCC string `gorm:"type:varchar(60);index"`

	// Interes is the annual rate (%) attached to PRESTAMISTAS PRESTAMO rows.
	Interes decimal.Decimal `gorm:"type:decimal(8,4)"`

	// Sell leg of an ARBITRAJE movement.
	MontoVenta    decimal.Decimal `gorm:"type:decimal(18,6)"`
	TCVenta       decimal.Decimal `gorm:"type:decimal(18,6)"`
	MonedaTCVenta string          `gorm:"type:varchar(10)"`
	MonedaProfit  string          `gorm:"type:varchar(10)"`

	Estado    string `gorm:"type:varchar(20);not null;default:'confirmado'"`
	Cuenta    string `gorm:"type:varchar(60)"`
	Socio     string `gorm:"type:varchar(60)"`
	PagoMixto bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (Movimiento) TableName() string { return "movimientos" }
