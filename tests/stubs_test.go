package tests

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/model"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs shared across the service tests. The services
// run their transactions through runTx, which calls fn(nil) when DB() returns
// nil — so every ...Tx method here accepts a nil *gorm.DB.

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.CodigoBarras != nil && *p.CodigoBarras == barcode && p.Activo {
			return p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if !p.Activo {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("record not found")
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("record not found")
	}
	p.Activo = true
	return nil
}

func (r *stubProductoRepo) ListBajoStock(_ context.Context) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.StockActual <= p.StockMinimo {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductoRepo) ListConVencimiento(_ context.Context) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.FechaVencimiento != nil {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok || !p.Activo || p.StockActual < cantidad {
		return repository.ErrStockInsuficiente
	}
	p.StockActual -= cantidad
	return nil
}

func (r *stubProductoRepo) RestaurarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("record not found")
	}
	p.StockActual += cantidad
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// seedProducto registers an active product and returns it for mutation.
func seedProducto(r *stubProductoRepo, nombre, barcode string, precio float64, stock, minimo int) *model.Producto {
	bc := barcode
	p := &model.Producto{
		ID:           uuid.New(),
		CodigoBarras: &bc,
		Nombre:       nombre,
		Categoria:    "general",
		PrecioVenta:  decimal.NewFromFloat(precio),
		StockActual:  stock,
		StockMinimo:  minimo,
		Activo:       true,
	}
	r.productos[p.ID] = p
	return p
}

// ── VentaRepository ──────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas    map[uuid.UUID]*model.Venta
	ticketSeq int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return v, nil
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, desde, hacia string) error {
	v, ok := r.ventas[id]
	if !ok || v.Estado != desde {
		return repository.ErrEstadoConflicto
	}
	v.Estado = hacia
	return nil
}

func (r *stubVentaRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.ticketSeq++
	return r.ticketSeq, nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var result []model.Venta
	for _, v := range r.ventas {
		if filter.Estado != "" && filter.Estado != "all" && v.Estado != filter.Estado {
			continue
		}
		result = append(result, *v)
	}
	return result, int64(len(result)), nil
}

func (r *stubVentaRepo) ListCompletadasEntre(_ context.Context, _, _ string) ([]model.Venta, error) {
	var result []model.Venta
	for _, v := range r.ventas {
		if v.Estado == "completada" {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (r *stubVentaRepo) ListRecientesCompletadas(_ context.Context, desde time.Time, limit int) ([]model.Venta, error) {
	var result []model.Venta
	for _, v := range r.ventas {
		if v.Estado == "completada" && !v.CreatedAt.Before(desde) {
			result = append(result, *v)
		}
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── PedidoRepository ─────────────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubPedidoRepo) FindByCodigoRetiro(_ context.Context, codigo string) (*model.Pedido, error) {
	for _, p := range r.pedidos {
		if strings.EqualFold(p.CodigoRetiro, codigo) {
			return p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubPedidoRepo) ExisteCodigoRetiro(_ context.Context, codigo string) (bool, error) {
	for _, p := range r.pedidos {
		if strings.EqualFold(p.CodigoRetiro, codigo) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPedidoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, desde, hacia string) error {
	p, ok := r.pedidos[id]
	if !ok || p.Estado != desde {
		return repository.ErrEstadoConflicto
	}
	p.Estado = hacia
	return nil
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var result []model.Pedido
	for _, p := range r.pedidos {
		if filter.Estado != "" && filter.Estado != "all" && p.Estado != filter.Estado {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// ── MovimientoStockRepository ────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) Create(_ context.Context, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	var result []model.MovimientoStock
	for _, m := range r.movimientos {
		if filter.ProductoID != nil && m.ProductoID != *filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		result = append(result, m)
	}
	return result, int64(len(result)), nil
}

func (r *stubMovimientoRepo) CountByReferencia(_ context.Context, referenciaID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range r.movimientos {
		if m.ReferenciaID != nil && *m.ReferenciaID == referenciaID {
			count++
		}
	}
	return count, nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// porProducto filters captured movements for one product.
func (r *stubMovimientoRepo) porProducto(id uuid.UUID) []model.MovimientoStock {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == id {
			out = append(out, m)
		}
	}
	return out
}

// ── PromocionRepository ──────────────────────────────────────────────────────

type stubPromocionRepo struct {
	promociones map[uuid.UUID]*model.Promocion
}

func newStubPromocionRepo() *stubPromocionRepo {
	return &stubPromocionRepo{promociones: make(map[uuid.UUID]*model.Promocion)}
}

func (r *stubPromocionRepo) Create(_ context.Context, p *model.Promocion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.promociones[p.ID] = p
	return nil
}

func (r *stubPromocionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Promocion, error) {
	p, ok := r.promociones[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubPromocionRepo) List(_ context.Context) ([]model.Promocion, error) {
	var result []model.Promocion
	for _, p := range r.promociones {
		result = append(result, *p)
	}
	return result, nil
}

func (r *stubPromocionRepo) ListVigentes(_ context.Context, now time.Time) ([]model.Promocion, error) {
	var result []model.Promocion
	for _, p := range r.promociones {
		if p.Activo && !now.Before(p.FechaInicio) && !now.After(p.FechaFin) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubPromocionRepo) Update(_ context.Context, p *model.Promocion) error {
	r.promociones[p.ID] = p
	return nil
}

func (r *stubPromocionRepo) ReplaceProductos(_ context.Context, p *model.Promocion, productos []model.Producto) error {
	p.Productos = productos
	r.promociones[p.ID] = p
	return nil
}

func (r *stubPromocionRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.promociones[id]
	if !ok {
		return errors.New("record not found")
	}
	p.Activo = false
	return nil
}

var _ repository.PromocionRepository = (*stubPromocionRepo)(nil)

// ── UsuarioRepository ────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var result []model.Usuario
	for _, u := range r.usuarios {
		result = append(result, *u)
	}
	return result, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errors.New("record not found")
	}
	u.Activo = false
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errors.New("record not found")
	}
	u.Activo = true
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)
