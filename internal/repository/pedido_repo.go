package repository

import (
	"context"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	// FindByCodigoRetiro matches case-insensitively — staff type whatever the
	// customer dictates.
	FindByCodigoRetiro(ctx context.Context, codigo string) (*model.Pedido, error)
	ExisteCodigoRetiro(ctx context.Context, codigo string) (bool, error)
	// UpdateEstadoTx flips estado only while the row still holds desde.
	// Returns ErrEstadoConflicto on zero rows affected: two staff clients
	// racing through the live order board get exactly one winner.
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hacia string) error
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Items.Producto").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pedidoRepo) FindByCodigoRetiro(ctx context.Context, codigo string) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Where("UPPER(codigo_retiro) = UPPER(?)", codigo).
		First(&p).Error
	return &p, err
}

func (r *pedidoRepo) ExisteCodigoRetiro(ctx context.Context, codigo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("UPPER(codigo_retiro) = UPPER(?)", codigo).
		Count(&count).Error
	return count > 0, err
}

func (r *pedidoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hacia string) error {
	res := tx.Model(&model.Pedido{}).
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

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pedido{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Producto").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error

	return pedidos, total, err
}
