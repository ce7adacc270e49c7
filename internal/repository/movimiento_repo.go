package repository

import (
	"context"

	"casacambios/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoFilter narrows listings of movements. Zero values mean "all".
type MovimientoFilter struct {
	Desde        string // YYYY-MM-DD inclusive
	Hasta        string // YYYY-MM-DD inclusive
	Operacion    model.Operacion
	SubOperacion model.SubOperacion
	ClienteID    *uuid.UUID
	ProveedorCC  string
	Estado       string
	Page         int
	Limit        int
}

type MovimientoRepository interface {
	Create(ctx context.Context, m *model.Movimiento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Movimiento, error)
	List(ctx context.Context, filter MovimientoFilter) ([]model.Movimiento, int64, error)
	// ListAllCronologico returns the complete history in the fold order
	// the engine depends on: fecha asc, then insertion order. This is
	// the documented tie-break contract for same-day movements.
	ListAllCronologico(ctx context.Context) ([]model.Movimiento, error)
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Movimiento, error)
	CountByCliente(ctx context.Context, clienteID uuid.UUID) (int64, error)
	Update(ctx context.Context, m *model.Movimiento) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository {
	return &movimientoRepo{db: db}
}

func (r *movimientoRepo) Create(ctx context.Context, m *model.Movimiento) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Movimiento, error) {
	var m model.Movimiento
	err := r.db.WithContext(ctx).Preload("Cliente").First(&m, id).Error
	return &m, err
}

func (r *movimientoRepo) List(ctx context.Context, filter MovimientoFilter) ([]model.Movimiento, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Movimiento{}).Preload("Cliente")

	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha <= ?", filter.Hasta)
	}
	if filter.Operacion != "" {
		q = q.Where("operacion = ?", filter.Operacion)
	}
	if filter.SubOperacion != "" {
		q = q.Where("sub_operacion = ?", filter.SubOperacion)
	}
	if filter.ClienteID != nil {
		q = q.Where("cliente_id = ?", *filter.ClienteID)
	}
	if filter.ProveedorCC != "" {
		q = q.Where("proveedor_cc = ?", filter.ProveedorCC)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movs []model.Movimiento
	err := q.Order("fecha DESC, created_at DESC").Offset(offset).Limit(limit).Find(&movs).Error
	return movs, total, err
}

func (r *movimientoRepo) ListAllCronologico(ctx context.Context) ([]model.Movimiento, error) {
	var movs []model.Movimiento
	err := r.db.WithContext(ctx).
		Order("fecha ASC, created_at ASC, id ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Movimiento, error) {
	var movs []model.Movimiento
	err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("fecha ASC, created_at ASC, id ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) CountByCliente(ctx context.Context, clienteID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Movimiento{}).
		Where("cliente_id = ?", clienteID).
		Count(&total).Error
	return total, err
}

func (r *movimientoRepo) Update(ctx context.Context, m *model.Movimiento) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *movimientoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Movimiento{}, id).Error
}
