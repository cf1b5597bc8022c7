package repository

import (
	"context"
	"errors"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrEstadoConflicto is returned when a conditional estado update matches
// zero rows — another transaction changed the estado first.
var ErrEstadoConflicto = errors.New("estado modificado por otra operacion")

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// UpdateEstadoTx flips estado only while the row still holds desde,
	// compare-and-set style. Returns ErrEstadoConflicto on zero rows affected.
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hacia string) error
	NextTicketNumber(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// ListCompletadasEntre feeds the sales reports. Estado anulada excluded.
	ListCompletadasEntre(ctx context.Context, desde, hasta string) ([]model.Venta, error)
	// ListRecientesCompletadas returns completed ventas created since the given
	// instant, items preloaded. Used by the reconciliation cron.
	ListRecientesCompletadas(ctx context.Context, desde time.Time, limit int) ([]model.Venta, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items.Producto").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hacia string) error {
	res := tx.Model(&model.Venta{}).
		Where("id = ? AND estado = ?", id, desde).
		Update("estado", hacia)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEstadoConflicto
	}
	return nil
}

func (r *ventaRepo) NextTicketNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence keeps ticket numbers gapless-enough and atomic
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('ventas_numero_ticket_seq')").Scan(&num).Error
	return num, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	} else {
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Producto").Preload("Cajero").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) ListCompletadasEntre(ctx context.Context, desde, hasta string) ([]model.Venta, error) {
	var ventas []model.Venta
	q := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Where("estado = ?", "completada")
	if desde != "" {
		q = q.Where("DATE(created_at) >= ?", desde)
	}
	if hasta != "" {
		q = q.Where("DATE(created_at) <= ?", hasta)
	}
	err := q.Order("created_at ASC").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListRecientesCompletadas(ctx context.Context, desde time.Time, limit int) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("estado = ? AND created_at >= ?", "completada", desde).
		Order("created_at ASC").
		Limit(limit).
		Find(&ventas).Error
	return ventas, err
}
