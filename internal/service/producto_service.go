package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/model"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// precioCachePrefix keys the price check cache. TTL is short: promotions can
// start or end at midnight and a stale price at the counter is worse than a
// cache miss.
const (
	precioCachePrefix = "precio:"
	precioCacheTTL    = 60 * time.Second
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	ConsultarPrecio(ctx context.Context, barcode string) (*dto.ConsultaPrecioResponse, error)
}

type productoService struct {
	repo        repository.ProductoRepository
	promociones PromocionService
	rdb         *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, promociones PromocionService, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, promociones: promociones, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.CodigoBarras != nil && *req.CodigoBarras != "" {
		if _, err := s.repo.FindByBarcode(ctx, *req.CodigoBarras); err == nil {
			return nil, fmt.Errorf("ya existe un producto con codigo de barras %s", *req.CodigoBarras)
		}
	}

	p := model.Producto{
		CodigoBarras:   req.CodigoBarras,
		Nombre:         req.Nombre,
		Descripcion:    req.Descripcion,
		Categoria:      req.Categoria,
		Seccion:        req.Seccion,
		PrecioVenta:    req.PrecioVenta,
		StockActual:    req.StockActual,
		StockMinimo:    req.StockMinimo,
		RequiereReceta: req.RequiereReceta,
		Activo:         true,
	}
	if req.FechaVencimiento != nil {
		fv, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, errors.New("fecha_vencimiento invalida, formato esperado YYYY-MM-DD")
		}
		p.FechaVencimiento = &fv
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("error creando producto: %w", err)
	}
	return productoToResponse(&p), nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	s.invalidarCachePrecio(ctx, p.CodigoBarras)

	if req.CodigoBarras != nil {
		p.CodigoBarras = req.CodigoBarras
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.Seccion != nil {
		p.Seccion = req.Seccion
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.RequiereReceta != nil {
		p.RequiereReceta = *req.RequiereReceta
	}
	if req.FechaVencimiento != nil {
		fv, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, errors.New("fecha_vencimiento invalida, formato esperado YYYY-MM-DD")
		}
		p.FechaVencimiento = &fv
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("error actualizando producto: %w", err)
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Desactivar is a soft delete: the product disappears from catalog and sale
// paths but keeps its movement history and past tickets intact.
func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("producto no encontrado")
	}
	s.invalidarCachePrecio(ctx, p.CodigoBarras)
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("producto no encontrado")
	}
	return s.repo.Reactivar(ctx, id)
}

// ConsultarPrecio backs the price-check kiosk endpoint. Promotion resolution
// happens here so the shelf scanner shows what the ticket will charge.
func (s *productoService) ConsultarPrecio(ctx context.Context, barcode string) (*dto.ConsultaPrecioResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, precioCachePrefix+barcode).Result()
		if err == nil {
			var resp dto.ConsultaPrecioResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	promos, err := s.promociones.Vigentes(ctx)
	if err != nil {
		return nil, fmt.Errorf("error consultando promociones: %w", err)
	}

	resp := dto.ConsultaPrecioResponse{
		Nombre:          p.Nombre,
		PrecioVenta:     p.PrecioVenta,
		StockDisponible: p.StockActual,
		Categoria:       p.Categoria,
	}

	precio, promo := ResolverPrecio(p, promos, time.Now())
	if promo != nil {
		resp.PrecioPromocional = &precio
		resp.Promocion = &promo.Nombre
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, precioCachePrefix+barcode, data, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("barcode", barcode).Msg("precio cache: set failed")
			}
		}
	}

	return &resp, nil
}

func (s *productoService) invalidarCachePrecio(ctx context.Context, barcode *string) {
	if s.rdb == nil || barcode == nil || *barcode == "" {
		return
	}
	if err := s.rdb.Del(ctx, precioCachePrefix+*barcode).Err(); err != nil {
		log.Warn().Err(err).Str("barcode", *barcode).Msg("precio cache: invalidation failed")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:             p.ID.String(),
		CodigoBarras:   p.CodigoBarras,
		Nombre:         p.Nombre,
		Descripcion:    p.Descripcion,
		Categoria:      p.Categoria,
		Seccion:        p.Seccion,
		PrecioVenta:    p.PrecioVenta,
		StockActual:    p.StockActual,
		StockMinimo:    p.StockMinimo,
		RequiereReceta: p.RequiereReceta,
		Activo:         p.Activo,
	}
	if p.FechaVencimiento != nil {
		fv := p.FechaVencimiento.Format("2006-01-02")
		resp.FechaVencimiento = &fv
	}
	return resp
}
