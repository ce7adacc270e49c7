package repository

import (
	"context"

	"casacambios/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaldoInicialRepository interface {
	// Upsert replaces the seed for (tipo, entidad, moneda).
	Upsert(ctx context.Context, s *model.SaldoInicial) error
	Find(ctx context.Context, tipo, entidad, moneda string) (*model.SaldoInicial, error)
	ListByTipo(ctx context.Context, tipo string) ([]model.SaldoInicial, error)
	Delete(ctx context.Context, tipo, entidad, moneda string) error
}

type saldoRepo struct{ db *gorm.DB }

func NewSaldoInicialRepository(db *gorm.DB) SaldoInicialRepository {
	return &saldoRepo{db: db}
}

func (r *saldoRepo) Upsert(ctx context.Context, s *model.SaldoInicial) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tipo"}, {Name: "entidad"}, {Name: "moneda"}},
		DoUpdates: clause.AssignmentColumns([]string{"monto", "updated_at"}),
	}).Create(s).Error
}

func (r *saldoRepo) Find(ctx context.Context, tipo, entidad, moneda string) (*model.SaldoInicial, error) {
	var s model.SaldoInicial
	err := r.db.WithContext(ctx).
		Where("tipo = ? AND entidad = ? AND moneda = ?", tipo, entidad, moneda).
		First(&s).Error
	return &s, err
}

func (r *saldoRepo) ListByTipo(ctx context.Context, tipo string) ([]model.SaldoInicial, error) {
	var saldos []model.SaldoInicial
	err := r.db.WithContext(ctx).
		Where("tipo = ?", tipo).
		Order("entidad, moneda").
		Find(&saldos).Error
	return saldos, err
}

func (r *saldoRepo) Delete(ctx context.Context, tipo, entidad, moneda string) error {
	return r.db.WithContext(ctx).
		Where("tipo = ? AND entidad = ? AND moneda = ?", tipo, entidad, moneda).
		Delete(&model.SaldoInicial{}).Error
}
