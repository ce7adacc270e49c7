package service_test

import (
	"context"
	"testing"

	"casacambios/internal/dto"
	"casacambios/internal/model"
	"casacambios/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildClienteSvc() (service.ClienteService, *stubClienteRepo, *stubMovimientoRepo) {
	clienteRepo := newStubClienteRepo()
	movRepo := newStubMovimientoRepo()
	svc := service.NewClienteService(clienteRepo, movRepo)
	return svc, clienteRepo, movRepo
}

func TestCrearCliente(t *testing.T) {
	svc, _, _ := buildClienteSvc()

	resp, err := svc.Crear(context.Background(), dto.CrearClienteRequest{
		Nombre:      "Maria",
		Apellido:    "Lopez",
		TipoCliente: "prestamistas",
	})
	require.NoError(t, err)

	assert.Equal(t, "prestamistas", resp.TipoCliente)
	assert.True(t, resp.Activo)
	assert.Zero(t, resp.Movimientos)
}

func TestEliminarCliente_ConMovimientosRechaza(t *testing.T) {
	svc, clienteRepo, movRepo := buildClienteSvc()

	cliente := &model.Cliente{Nombre: "Juan", Apellido: "Perez", TipoCliente: "regular", Activo: true}
	require.NoError(t, clienteRepo.Create(context.Background(), cliente))

	mov := &model.Movimiento{
		ClienteID:    &cliente.ID,
		Operacion:    model.OpTransacciones,
		SubOperacion: model.SubCompra,
		Moneda:       "USD",
		Monto:        decimal.NewFromInt(10),
	}
	require.NoError(t, movRepo.Create(context.Background(), mov))

	err := svc.Eliminar(context.Background(), cliente.ID)
	assert.ErrorIs(t, err, service.ErrClienteConMovimientos)

	// Still there
	_, err = clienteRepo.FindByID(context.Background(), cliente.ID)
	assert.NoError(t, err)
}

func TestEliminarCliente_SinMovimientos(t *testing.T) {
	svc, clienteRepo, _ := buildClienteSvc()

	cliente := &model.Cliente{Nombre: "Juan", Apellido: "Perez", TipoCliente: "regular", Activo: true}
	require.NoError(t, clienteRepo.Create(context.Background(), cliente))

	require.NoError(t, svc.Eliminar(context.Background(), cliente.ID))

	_, err := clienteRepo.FindByID(context.Background(), cliente.ID)
	assert.Error(t, err)
}

func TestEliminarCliente_Inexistente(t *testing.T) {
	svc, _, _ := buildClienteSvc()
	err := svc.Eliminar(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestActualizarCliente_CamposParciales(t *testing.T) {
	svc, clienteRepo, _ := buildClienteSvc()

	cliente := &model.Cliente{Nombre: "Juan", Apellido: "Perez", TipoCliente: "regular", Activo: true}
	require.NoError(t, clienteRepo.Create(context.Background(), cliente))

	tel := "+54 11 5555-0000"
	resp, err := svc.Actualizar(context.Background(), cliente.ID, dto.ActualizarClienteRequest{
		Telefono: &tel,
	})
	require.NoError(t, err)

	assert.Equal(t, "Juan", resp.Nombre, "unspecified fields keep their value")
	require.NotNil(t, resp.Telefono)
	assert.Equal(t, tel, *resp.Telefono)
}

func TestObtenerCliente_CuentaMovimientos(t *testing.T) {
	svc, clienteRepo, movRepo := buildClienteSvc()

	cliente := &model.Cliente{Nombre: "Rita", Apellido: "Suarez", TipoCliente: "regular", Activo: true}
	require.NoError(t, clienteRepo.Create(context.Background(), cliente))

	for i := 0; i < 3; i++ {
		mov := &model.Movimiento{
			ClienteID:    &cliente.ID,
			Operacion:    model.OpTransacciones,
			SubOperacion: model.SubCompra,
			Moneda:       "USD",
			Monto:        decimal.NewFromInt(int64(i + 1)),
		}
		require.NoError(t, movRepo.Create(context.Background(), mov))
	}

	resp, err := svc.ObtenerPorID(context.Background(), cliente.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Movimientos)
}
