package service

import (
	"context"
	"time"

	"casacambios/internal/dto"
	"casacambios/internal/model"
	"casacambios/internal/repository"
	"casacambios/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// toleranciaTotal bounds the accepted drift between the declared total and
// monto*tc for non-mixed payments.
var toleranciaTotal = decimal.NewFromFloat(0.01)

type MovimientoService interface {
	Crear(ctx context.Context, req dto.CrearMovimientoRequest) (*dto.MovimientoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MovimientoResponse, error)
	Listar(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMovimientoRequest) (*dto.MovimientoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type movimientoService struct {
	repo        repository.MovimientoRepository
	clienteRepo repository.ClienteRepository
	dispatcher  *worker.Dispatcher
}

func NewMovimientoService(repo repository.MovimientoRepository, clienteRepo repository.ClienteRepository, dispatcher *worker.Dispatcher) MovimientoService {
	return &movimientoService{repo: repo, clienteRepo: clienteRepo, dispatcher: dispatcher}
}

func (s *movimientoService) Crear(ctx context.Context, req dto.CrearMovimientoRequest) (*dto.MovimientoResponse, error) {
	mov, err := s.buildMovimiento(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, mov); err != nil {
		return nil, err
	}

	s.enqueueRecalculo(ctx, "movimiento")
	resp := movimientoToResponse(mov)
	return &resp, nil
}

func (s *movimientoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MovimientoResponse, error) {
	mov, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := movimientoToResponse(mov)
	return &resp, nil
}

func (s *movimientoService) Listar(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	repoFilter := repository.MovimientoFilter{
		Desde:        filter.Desde,
		Hasta:        filter.Hasta,
		Operacion:    model.Operacion(filter.Operacion),
		SubOperacion: model.SubOperacion(filter.SubOperacion),
		ProveedorCC:  filter.ProveedorCC,
		Estado:       filter.Estado,
		Page:         filter.Page,
		Limit:        filter.Limit,
	}
	if filter.ClienteID != "" {
		cid, err := uuid.Parse(filter.ClienteID)
		if err != nil {
			return nil, errValidacion("cliente_id invalido")
		}
		repoFilter.ClienteID = &cid
	}

	movs, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.MovimientoResponse, len(movs))
	for i := range movs {
		data[i] = movimientoToResponse(&movs[i])
	}
	return &dto.MovimientoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *movimientoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMovimientoRequest) (*dto.MovimientoResponse, error) {
	existente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	nuevo, err := s.buildMovimiento(ctx, req.CrearMovimientoRequest)
	if err != nil {
		return nil, err
	}

	// Preserve identity and creation order; everything else is replaced.
	nuevo.ID = existente.ID
	nuevo.CreatedAt = existente.CreatedAt
	nuevo.Estado = existente.Estado
	if req.Estado != "" {
		nuevo.Estado = req.Estado
	}

	if err := s.repo.Update(ctx, nuevo); err != nil {
		return nil, err
	}

	s.enqueueRecalculo(ctx, "movimiento")
	resp := movimientoToResponse(nuevo)
	return &resp, nil
}

func (s *movimientoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.enqueueRecalculo(ctx, "movimiento")
	return nil
}

// buildMovimiento validates the request against the closed operation set
// and the total consistency rule, then maps it onto the model.
func (s *movimientoService) buildMovimiento(ctx context.Context, req dto.CrearMovimientoRequest) (*model.Movimiento, error) {
	op := model.Operacion(req.Operacion)
	sub := model.SubOperacion(req.SubOperacion)

	if !op.Valida() {
		return nil, errValidacion("operacion desconocida: %s", req.Operacion)
	}
	if !op.PermiteSub(sub) {
		return nil, errValidacion("sub_operacion %s no permitida para %s", req.SubOperacion, req.Operacion)
	}

	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, errValidacion("fecha invalida: %s", req.Fecha)
	}

	mov := &model.Movimiento{
		Fecha:          fecha,
		Operacion:      op,
		SubOperacion:   sub,
		Moneda:         req.Moneda,
		Monto:          req.Monto,
		TC:             req.TC,
		MonedaTC:       req.MonedaTC,
		Total:          req.Total,
		Comision:       req.Comision,
		MonedaComision: req.MonedaComision,
		ProveedorCC:    req.ProveedorCC,
		Interes:        req.Interes,
		MontoVenta:     req.MontoVenta,
		TCVenta:        req.TCVenta,
		MonedaTCVenta:  req.MonedaTCVenta,
		MonedaProfit:   req.MonedaProfit,
		Cuenta:         req.Cuenta,
		Socio:          req.Socio,
		PagoMixto:      req.PagoMixto,
	}

	if req.ClienteID != "" {
		cid, err := uuid.Parse(req.ClienteID)
		if err != nil {
			return nil, errValidacion("cliente_id invalido")
		}
		if _, err := s.clienteRepo.FindByID(ctx, cid); err != nil {
			return nil, errValidacion("cliente %s no existe", req.ClienteID)
		}
		mov.ClienteID = &cid
	}

	if op == model.OpPrestamistas && mov.ClienteID == nil {
		return nil, errValidacion("los movimientos de prestamistas requieren cliente_id")
	}
	if op == model.OpCuentasCorrientes && mov.ProveedorCC == "" {
		return nil, errValidacion("los movimientos de cuenta corriente requieren proveedor_cc")
	}
	if sub == model.SubArbitraje {
		if mov.MontoVenta.IsZero() || mov.TCVenta.IsZero() {
			return nil, errValidacion("arbitraje requiere monto_venta y tc_venta")
		}
	}

	// Total defaults to monto*tc; an explicit total must agree with it
	// unless the payment was split across instruments.
	if !mov.PagoMixto && !mov.TC.IsZero() {
		esperado := mov.Monto.Mul(mov.TC)
		if mov.Total.IsZero() {
			mov.Total = esperado
		} else if mov.Total.Sub(esperado).Abs().GreaterThan(toleranciaTotal) {
			return nil, errValidacion("total %s no coincide con monto*tc (%s)", mov.Total.String(), esperado.String())
		}
	}

	return mov, nil
}

// enqueueRecalculo refreshes the cached snapshots after any write. A full
// queue failure only degrades cache freshness, so it is logged, not returned.
func (s *movimientoService) enqueueRecalculo(ctx context.Context, motivo string) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.RecalculoJobPayload{Motivo: motivo, SolicitadoEn: time.Now()}
	if err := s.dispatcher.EnqueueRecalculo(ctx, payload); err != nil {
		log.Warn().Err(err).Msg("movimiento_service: failed to enqueue recalculo")
	}
}

func movimientoToResponse(m *model.Movimiento) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:             m.ID.String(),
		Fecha:          m.Fecha.Format("2006-01-02"),
		Operacion:      string(m.Operacion),
		SubOperacion:   string(m.SubOperacion),
		Moneda:         m.Moneda,
		Monto:          m.Monto,
		TC:             m.TC,
		MonedaTC:       m.MonedaTC,
		Total:          m.Total,
		Comision:       m.Comision,
		MonedaComision: m.MonedaComision,
		ProveedorCC:    m.ProveedorCC,
		Interes:        m.Interes,
		MontoVenta:     m.MontoVenta,
		TCVenta:        m.TCVenta,
		MonedaTCVenta:  m.MonedaTCVenta,
		MonedaProfit:   m.MonedaProfit,
		Estado:         m.Estado,
		Cuenta:         m.Cuenta,
		Socio:          m.Socio,
		PagoMixto:      m.PagoMixto,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
	if m.ClienteID != nil {
		resp.ClienteID = m.ClienteID.String()
	}
	if m.Cliente != nil {
		resp.ClienteNombre = m.Cliente.Apellido + ", " + m.Cliente.Nombre
	}
	return resp
}
