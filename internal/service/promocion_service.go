package service

import (
	"context"
	"errors"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/model"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromocionService manages discount rules and resolves effective prices.
type PromocionService interface {
	Crear(ctx context.Context, req dto.CrearPromocionRequest) (*dto.PromocionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPromocionRequest) (*dto.PromocionResponse, error)
	Listar(ctx context.Context) ([]dto.PromocionResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	// Vigentes returns the promotions applicable right now, products preloaded.
	Vigentes(ctx context.Context) ([]model.Promocion, error)
}

type promocionService struct {
	repo         repository.PromocionRepository
	productoRepo repository.ProductoRepository
}

func NewPromocionService(repo repository.PromocionRepository, productoRepo repository.ProductoRepository) PromocionService {
	return &promocionService{repo: repo, productoRepo: productoRepo}
}

// PromocionVigente reports whether p applies at instant now.
func PromocionVigente(p *model.Promocion, now time.Time) bool {
	return p.Activo && !now.Before(p.FechaInicio) && !now.After(p.FechaFin)
}

// PrecioConDescuento applies a single promotion to a price.
// porcentaje: precio × (1 − valor/100). fijo: max(0, precio − valor).
// The result is never negative.
func PrecioConDescuento(precio decimal.Decimal, p *model.Promocion) decimal.Decimal {
	var res decimal.Decimal
	switch p.DescuentoTipo {
	case "porcentaje":
		factor := decimal.NewFromInt(1).Sub(p.DescuentoValor.Div(decimal.NewFromInt(100)))
		res = precio.Mul(factor).Round(2)
	case "fijo":
		res = precio.Sub(p.DescuentoValor)
	default:
		return precio
	}
	if res.IsNegative() {
		return decimal.Zero
	}
	return res
}

// ResolverPrecio computes the effective price of a product given the vigente
// promotions. When several promotions cover the same product, the one
// yielding the LOWEST price wins. Returns the original price and nil when no
// promotion applies.
func ResolverPrecio(producto *model.Producto, promos []model.Promocion, now time.Time) (decimal.Decimal, *model.Promocion) {
	mejor := producto.PrecioVenta
	var elegida *model.Promocion
	for i := range promos {
		p := &promos[i]
		if !PromocionVigente(p, now) {
			continue
		}
		aplica := false
		for _, prod := range p.Productos {
			if prod.ID == producto.ID {
				aplica = true
				break
			}
		}
		if !aplica {
			continue
		}
		precio := PrecioConDescuento(producto.PrecioVenta, p)
		if precio.LessThan(mejor) {
			mejor = precio
			elegida = p
		}
	}
	return mejor, elegida
}

// ─── CRUD ────────────────────────────────────────────────────────────────────

func (s *promocionService) Crear(ctx context.Context, req dto.CrearPromocionRequest) (*dto.PromocionResponse, error) {
	inicio, _ := time.Parse("2006-01-02", req.FechaInicio)
	fin, _ := time.Parse("2006-01-02", req.FechaFin)
	if fin.Before(inicio) {
		return nil, errors.New("fecha_fin debe ser posterior a fecha_inicio")
	}
	if req.DescuentoTipo == "porcentaje" && req.DescuentoValor.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errors.New("el porcentaje de descuento no puede superar 100")
	}
	if req.DescuentoValor.IsNegative() {
		return nil, errors.New("descuento_valor no puede ser negativo")
	}

	productos, err := s.resolverProductos(ctx, req.ProductoIDs)
	if err != nil {
		return nil, err
	}

	promo := model.Promocion{
		Nombre:         req.Nombre,
		DescuentoTipo:  req.DescuentoTipo,
		DescuentoValor: req.DescuentoValor,
		FechaInicio:    inicio,
		// The whole end day is inclusive
		FechaFin:  fin.Add(24*time.Hour - time.Second),
		Activo:    true,
		Productos: productos,
	}
	if err := s.repo.Create(ctx, &promo); err != nil {
		return nil, err
	}
	return promocionToResponse(&promo), nil
}

func (s *promocionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPromocionRequest) (*dto.PromocionResponse, error) {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("promocion no encontrada")
	}

	if req.Nombre != nil {
		promo.Nombre = *req.Nombre
	}
	if req.DescuentoTipo != nil {
		promo.DescuentoTipo = *req.DescuentoTipo
	}
	if req.DescuentoValor != nil {
		if req.DescuentoValor.IsNegative() {
			return nil, errors.New("descuento_valor no puede ser negativo")
		}
		promo.DescuentoValor = *req.DescuentoValor
	}
	if req.FechaInicio != nil {
		inicio, _ := time.Parse("2006-01-02", *req.FechaInicio)
		promo.FechaInicio = inicio
	}
	if req.FechaFin != nil {
		fin, _ := time.Parse("2006-01-02", *req.FechaFin)
		promo.FechaFin = fin.Add(24*time.Hour - time.Second)
	}
	if promo.FechaFin.Before(promo.FechaInicio) {
		return nil, errors.New("fecha_fin debe ser posterior a fecha_inicio")
	}
	if req.Activo != nil {
		promo.Activo = *req.Activo
	}

	if req.ProductoIDs != nil {
		productos, err := s.resolverProductos(ctx, req.ProductoIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceProductos(ctx, promo, productos); err != nil {
			return nil, err
		}
		promo.Productos = productos
	}

	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, err
	}
	return promocionToResponse(promo), nil
}

func (s *promocionService) Listar(ctx context.Context) ([]dto.PromocionResponse, error) {
	promos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PromocionResponse, 0, len(promos))
	for i := range promos {
		out = append(out, *promocionToResponse(&promos[i]))
	}
	return out, nil
}

func (s *promocionService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("promocion no encontrada")
	}
	return s.repo.Desactivar(ctx, id)
}

func (s *promocionService) Vigentes(ctx context.Context) ([]model.Promocion, error) {
	return s.repo.ListVigentes(ctx, time.Now())
}

func (s *promocionService) resolverProductos(ctx context.Context, ids []string) ([]model.Producto, error) {
	productos := make([]model.Producto, 0, len(ids))
	for _, raw := range ids {
		pid, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("producto_id invalido: " + raw)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, errors.New("producto no encontrado: " + raw)
		}
		productos = append(productos, *p)
	}
	return productos, nil
}

func promocionToResponse(p *model.Promocion) *dto.PromocionResponse {
	ids := make([]string, 0, len(p.Productos))
	for _, prod := range p.Productos {
		ids = append(ids, prod.ID.String())
	}
	return &dto.PromocionResponse{
		ID:             p.ID.String(),
		Nombre:         p.Nombre,
		DescuentoTipo:  p.DescuentoTipo,
		DescuentoValor: p.DescuentoValor,
		FechaInicio:    p.FechaInicio.Format("2006-01-02"),
		FechaFin:       p.FechaFin.Format("2006-01-02"),
		Activo:         p.Activo,
		Vigente:        PromocionVigente(p, time.Now()),
		ProductoIDs:    ids,
	}
}
