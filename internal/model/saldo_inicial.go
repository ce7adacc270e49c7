package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Saldo inicial types. "cuenta" seeds a wallet/account balance;
// "proveedor_cc" seeds a current-account balance with a provider and is
// applied before folding CUENTAS_CORRIENTES movements.
const (
	SaldoTipoCuenta      = "cuenta"
	SaldoTipoProveedorCC = "proveedor_cc"
)

// SaldoInicial is an admin-set seed value keyed by (tipo, entidad, moneda).
// Seeds never participate in the WAC stock computation.
type SaldoInicial struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo      string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_saldo_clave,priority:1"`
	Entidad   string          `gorm:"type:varchar(60);not null;uniqueIndex:idx_saldo_clave,priority:2"`
	Moneda    string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_saldo_clave,priority:3"`
	Monto     decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	UpdatedAt time.Time
}

func (SaldoInicial) TableName() string { return "saldos_iniciales" }

// Clave returns the composite display key "{entidad}-{moneda}" used by
// the admin UI and the engine's seed map.
func (s SaldoInicial) Clave() string {
	return fmt.Sprintf("%s-%s", s.Entidad, s.Moneda)
}
