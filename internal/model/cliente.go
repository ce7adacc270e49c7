package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a counterparty of the exchange house. TipoCliente
// distinguishes regular clients from lenders (prestamistas), whose
// movements feed the interest-accrual engine.
type Cliente struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"not null;index"`
	Apellido    string    `gorm:"not null"`
	TipoCliente string    `gorm:"type:varchar(20);not null;default:'regular'"` // "regular" | "prestamistas"
	Telefono    *string
	Email       *string
	DNI         *string `gorm:"column:dni;uniqueIndex"`
	Activo      bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Cliente) TableName() string { return "clientes" }
