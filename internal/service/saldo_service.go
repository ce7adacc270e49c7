package service

import (
	"context"
	"time"

	"casacambios/internal/dto"
	"casacambios/internal/model"
	"casacambios/internal/repository"
	"casacambios/internal/worker"

	"github.com/rs/zerolog/log"
)

type SaldoService interface {
	Guardar(ctx context.Context, req dto.GuardarSaldoRequest) (*dto.SaldoResponse, error)
	Listar(ctx context.Context, tipo string) ([]dto.SaldoResponse, error)
	Eliminar(ctx context.Context, tipo, entidad, moneda string) error
}

type saldoService struct {
	repo       repository.SaldoInicialRepository
	dispatcher *worker.Dispatcher
}

func NewSaldoService(repo repository.SaldoInicialRepository, dispatcher *worker.Dispatcher) SaldoService {
	return &saldoService{repo: repo, dispatcher: dispatcher}
}

func (s *saldoService) Guardar(ctx context.Context, req dto.GuardarSaldoRequest) (*dto.SaldoResponse, error) {
	saldo := &model.SaldoInicial{
		Tipo:    req.Tipo,
		Entidad: req.Entidad,
		Moneda:  req.Moneda,
		Monto:   req.Monto,
	}
	if err := s.repo.Upsert(ctx, saldo); err != nil {
		return nil, err
	}

	s.enqueueRecalculo(ctx)
	resp := saldoToResponse(saldo)
	return &resp, nil
}

func (s *saldoService) Listar(ctx context.Context, tipo string) ([]dto.SaldoResponse, error) {
	if tipo == "" {
		tipo = model.SaldoTipoProveedorCC
	}
	saldos, err := s.repo.ListByTipo(ctx, tipo)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SaldoResponse, len(saldos))
	for i := range saldos {
		resp[i] = saldoToResponse(&saldos[i])
	}
	return resp, nil
}

func (s *saldoService) Eliminar(ctx context.Context, tipo, entidad, moneda string) error {
	if err := s.repo.Delete(ctx, tipo, entidad, moneda); err != nil {
		return err
	}
	s.enqueueRecalculo(ctx)
	return nil
}

func (s *saldoService) enqueueRecalculo(ctx context.Context) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.RecalculoJobPayload{Motivo: "saldo_inicial", SolicitadoEn: time.Now()}
	if err := s.dispatcher.EnqueueRecalculo(ctx, payload); err != nil {
		log.Warn().Err(err).Msg("saldo_service: failed to enqueue recalculo")
	}
}

func saldoToResponse(s *model.SaldoInicial) dto.SaldoResponse {
	return dto.SaldoResponse{
		Clave:   s.Clave(),
		Tipo:    s.Tipo,
		Entidad: s.Entidad,
		Moneda:  s.Moneda,
		Monto:   s.Monto,
	}
}
