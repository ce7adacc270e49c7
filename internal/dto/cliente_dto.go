package dto

type CrearClienteRequest struct {
	Nombre      string  `json:"nombre"       validate:"required"`
	Apellido    string  `json:"apellido"     validate:"required"`
	TipoCliente string  `json:"tipo_cliente" validate:"required,oneof=regular prestamistas"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email" validate:"omitempty,email"`
	DNI         *string `json:"dni"`
}

type ActualizarClienteRequest struct {
	Nombre      string  `json:"nombre"`
	Apellido    string  `json:"apellido"`
	TipoCliente string  `json:"tipo_cliente" validate:"omitempty,oneof=regular prestamistas"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email" validate:"omitempty,email"`
	DNI         *string `json:"dni"`
}

type ClienteResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Apellido    string  `json:"apellido"`
	TipoCliente string  `json:"tipo_cliente"`
	Telefono    *string `json:"telefono,omitempty"`
	Email       *string `json:"email,omitempty"`
	DNI         *string `json:"dni,omitempty"`
	Activo      bool    `json:"activo"`
	// Movimientos is the number of movements referencing this client;
	// nonzero blocks deletion.
	Movimientos int64 `json:"movimientos"`
}
