package service

import (
	"context"

	"casacambios/internal/dto"
	"casacambios/internal/model"
	"casacambios/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, tipo string) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo    repository.ClienteRepository
	movRepo repository.MovimientoRepository
}

func NewClienteService(repo repository.ClienteRepository, movRepo repository.MovimientoRepository) ClienteService {
	return &clienteService{repo: repo, movRepo: movRepo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	cliente := &model.Cliente{
		Nombre:      req.Nombre,
		Apellido:    req.Apellido,
		TipoCliente: req.TipoCliente,
		Telefono:    req.Telefono,
		Email:       req.Email,
		DNI:         req.DNI,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, cliente); err != nil {
		return nil, err
	}
	resp := clienteToResponse(cliente, 0)
	return &resp, nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.movRepo.CountByCliente(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := clienteToResponse(cliente, count)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, tipo string) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx, tipo)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		count, err := s.movRepo.CountByCliente(ctx, clientes[i].ID)
		if err != nil {
			return nil, err
		}
		resp[i] = clienteToResponse(&clientes[i], count)
	}
	return resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != "" {
		cliente.Nombre = req.Nombre
	}
	if req.Apellido != "" {
		cliente.Apellido = req.Apellido
	}
	if req.TipoCliente != "" {
		cliente.TipoCliente = req.TipoCliente
	}
	if req.Telefono != nil {
		cliente.Telefono = req.Telefono
	}
	if req.Email != nil {
		cliente.Email = req.Email
	}
	if req.DNI != nil {
		cliente.DNI = req.DNI
	}
	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, err
	}
	count, err := s.movRepo.CountByCliente(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := clienteToResponse(cliente, count)
	return &resp, nil
}

// Eliminar refuses to drop a client that movements still reference, so the
// replayed history never dangles.
func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.movRepo.CountByCliente(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrClienteConMovimientos
	}
	return s.repo.Delete(ctx, id)
}

func clienteToResponse(c *model.Cliente, movimientos int64) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Apellido:    c.Apellido,
		TipoCliente: c.TipoCliente,
		Telefono:    c.Telefono,
		Email:       c.Email,
		DNI:         c.DNI,
		Activo:      c.Activo,
		Movimientos: movimientos,
	}
}
