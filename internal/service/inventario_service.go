package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/model"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventarioService interface {
	AjustarStock(ctx context.Context, productoID, usuarioID uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error)
	ListarMovimientos(ctx context.Context, filter repository.MovimientoStockFilter) (*dto.MovimientoListResponse, error)
	AlertasBajoStock(ctx context.Context) ([]dto.AlertaStockResponse, error)
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
}

func NewInventarioService(productoRepo repository.ProductoRepository, movimientoRepo repository.MovimientoStockRepository) InventarioService {
	return &inventarioService{productoRepo: productoRepo, movimientoRepo: movimientoRepo}
}

// AjustarStock applies a manual adjustment (restock, merma, recuento) and its
// movement row in one transaction. A salida larger than current stock fails
// the same conditional-decrement way a sale does.
func (s *inventarioService) AjustarStock(ctx context.Context, productoID, usuarioID uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	stockAntes := p.StockActual

	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		// Re-read inside the tx: the movement snapshot must not trust the
		// pre-tx stock if another writer slipped in between
		if actual, err := s.productoRepo.FindByIDTx(tx, productoID); err == nil && actual != nil {
			stockAntes = actual.StockActual
		}

		var delta int
		switch req.Direccion {
		case "entrada":
			delta = req.Cantidad
			if err := s.productoRepo.RestaurarStockTx(tx, productoID, req.Cantidad); err != nil {
				return err
			}
		case "salida":
			delta = -req.Cantidad
			if err := s.productoRepo.DescontarStockTx(tx, productoID, req.Cantidad); err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return fmt.Errorf("stock insuficiente: disponible %d, ajuste %d", stockAntes, req.Cantidad)
				}
				return err
			}
		}

		usuario := usuarioID
		mov := &model.MovimientoStock{
			ProductoID:    productoID,
			Tipo:          req.Direccion,
			Cantidad:      delta,
			StockAnterior: stockAntes,
			StockNuevo:    stockAntes + delta,
			Motivo:        req.Motivo,
			UsuarioID:     &usuario,
		}
		return s.movimientoRepo.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	p.StockActual = stockAntes
	switch req.Direccion {
	case "entrada":
		p.StockActual += req.Cantidad
	case "salida":
		p.StockActual -= req.Cantidad
	}
	return productoToResponse(p), nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter repository.MovimientoStockFilter) (*dto.MovimientoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movimientos, total, err := s.movimientoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovimientoStockResponse, 0, len(movimientos))
	for _, m := range movimientos {
		nombre := ""
		if m.Producto != nil {
			nombre = m.Producto.Nombre
		}
		var usuarioID *string
		if m.UsuarioID != nil {
			u := m.UsuarioID.String()
			usuarioID = &u
		}
		items = append(items, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			Producto:      nombre,
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			UsuarioID:     usuarioID,
			CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	return &dto.MovimientoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventarioService) AlertasBajoStock(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productoRepo.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			StockActual: p.StockActual,
			StockMinimo: p.StockMinimo,
		})
	}
	return alertas, nil
}
