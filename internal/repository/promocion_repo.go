package repository

import (
	"context"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromocionRepository interface {
	Create(ctx context.Context, p *model.Promocion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Promocion, error)
	List(ctx context.Context) ([]model.Promocion, error)
	// ListVigentes returns active promotions whose window contains now,
	// with products preloaded.
	ListVigentes(ctx context.Context, now time.Time) ([]model.Promocion, error)
	Update(ctx context.Context, p *model.Promocion) error
	ReplaceProductos(ctx context.Context, p *model.Promocion, productos []model.Producto) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type promocionRepo struct{ db *gorm.DB }

func NewPromocionRepository(db *gorm.DB) PromocionRepository { return &promocionRepo{db: db} }

func (r *promocionRepo) Create(ctx context.Context, p *model.Promocion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *promocionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Promocion, error) {
	var p model.Promocion
	err := r.db.WithContext(ctx).Preload("Productos").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *promocionRepo) List(ctx context.Context) ([]model.Promocion, error) {
	var promos []model.Promocion
	err := r.db.WithContext(ctx).Preload("Productos").Order("fecha_inicio DESC").Find(&promos).Error
	return promos, err
}

func (r *promocionRepo) ListVigentes(ctx context.Context, now time.Time) ([]model.Promocion, error) {
	var promos []model.Promocion
	err := r.db.WithContext(ctx).
		Preload("Productos").
		Where("activo = true AND fecha_inicio <= ? AND fecha_fin >= ?", now, now).
		Find(&promos).Error
	return promos, err
}

func (r *promocionRepo) Update(ctx context.Context, p *model.Promocion) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *promocionRepo) ReplaceProductos(ctx context.Context, p *model.Promocion, productos []model.Producto) error {
	return r.db.WithContext(ctx).Model(p).Association("Productos").Replace(productos)
}

func (r *promocionRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Promocion{}).Where("id = ?", id).Update("activo", false).Error
}
