package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/model"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"
	"github.com/r34335132-lang/Farmacia-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, cajeroID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, id, usuarioID uuid.UUID, motivo string) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo           repository.VentaRepository
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
	promociones    PromocionService
	dispatcher     *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	promociones PromocionService,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:           repo,
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		promociones:    promociones,
		dispatcher:     dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Checkout as ONE ACID transaction:
//   1. Pre-flight outside the tx: resolve products, snapshot promotion-resolved
//      unit prices, compute totals, validate payment.
//   2. BEGIN TX: nextval ticket, create venta + items, conditional stock
//      decrement per line (UPDATE … WHERE stock_actual >= n — the authoritative
//      check, immune to the read-then-write race), one salida movement per line.
//   3. COMMIT. Any step failing rolls back everything: no sale ever exists
//      without its stock decrements and audit rows.
//   4. (async) receipt PDF + optional customer email.

func (s *ventaService) RegistrarVenta(ctx context.Context, cajeroID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	// 1. Payment shape: cash needs the received amount, card must not carry it
	switch req.MetodoPago {
	case "efectivo":
		if req.EfectivoRecibido == nil {
			return nil, errors.New("efectivo_recibido es requerido para pago en efectivo")
		}
	case "tarjeta":
		if req.EfectivoRecibido != nil {
			return nil, errors.New("efectivo_recibido no aplica para pago con tarjeta")
		}
	}

	promos, err := s.promociones.Vigentes(ctx)
	if err != nil {
		return nil, fmt.Errorf("error consultando promociones: %w", err)
	}
	now := time.Now()

	type resolvedItem struct {
		productoID uuid.UUID
		nombre     string
		precio     decimal.Decimal
		cantidad   int
		descuento  decimal.Decimal
		subtotal   decimal.Decimal
	}

	var resolved []resolvedItem
	subtotal := decimal.Zero
	descuentoTotal := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id invalido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if !p.Activo {
			return nil, fmt.Errorf("producto %s esta inactivo y no puede venderse", p.Nombre)
		}
		// Informative pre-check; the tx decrement re-validates atomically
		if p.StockActual < item.Cantidad {
			return nil, fmt.Errorf("stock insuficiente de %s: disponible %d, solicitado %d", p.Nombre, p.StockActual, item.Cantidad)
		}

		precio, _ := ResolverPrecio(p, promos, now)
		descuentoLinea := p.PrecioVenta.Sub(precio).Mul(decimal.NewFromInt(int64(item.Cantidad)))
		lineSubtotal := precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))

		subtotal = subtotal.Add(lineSubtotal)
		descuentoTotal = descuentoTotal.Add(descuentoLinea)
		resolved = append(resolved, resolvedItem{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     precio,
			cantidad:   item.Cantidad,
			descuento:  descuentoLinea,
			subtotal:   lineSubtotal,
		})
	}

	total := subtotal

	// 2. Cash sufficiency
	var efectivoRecibido, vuelto *decimal.Decimal
	if req.MetodoPago == "efectivo" {
		if req.EfectivoRecibido.LessThan(total) {
			return nil, errors.New("el efectivo recibido es insuficiente")
		}
		v := req.EfectivoRecibido.Sub(total)
		efectivoRecibido = req.EfectivoRecibido
		vuelto = &v
	}

	// 3. ACID transaction
	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNum, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			NumeroTicket:     ticketNum,
			CajeroID:         cajeroID,
			Subtotal:         subtotal,
			DescuentoTotal:   descuentoTotal,
			Total:            total,
			MetodoPago:       req.MetodoPago,
			EfectivoRecibido: efectivoRecibido,
			Vuelto:           vuelto,
			Estado:           "completada",
		}
		for _, r := range resolved {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				Subtotal:       r.subtotal,
			})
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		for _, r := range resolved {
			// Snapshot inside the tx: a cart listing the same product twice
			// must chain StockAnterior/StockNuevo across its own lines
			prodBefore, err := s.productoRepo.FindByIDTx(tx, r.productoID)
			stockAntes := 0
			if err == nil && prodBefore != nil {
				stockAntes = prodBefore.StockActual
			}

			if err := s.productoRepo.DescontarStockTx(tx, r.productoID, r.cantidad); err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return fmt.Errorf("stock insuficiente de %s", r.nombre)
				}
				return fmt.Errorf("error descontando stock de %s: %w", r.nombre, err)
			}

			ventaRef := venta.ID
			cajero := cajeroID
			mov := &model.MovimientoStock{
				ProductoID:    r.productoID,
				Tipo:          "salida",
				Cantidad:      -r.cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes - r.cantidad,
				Motivo:        fmt.Sprintf("Venta #%d", ticketNum),
				UsuarioID:     &cajero,
				ReferenciaID:  &ventaRef,
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 4. Async receipt — best-effort, fire & forget
	if s.dispatcher != nil {
		payload := worker.ComprobanteJobPayload{
			Tipo:         "venta",
			ReferenciaID: venta.ID.String(),
		}
		if req.ClienteEmail != nil && *req.ClienteEmail != "" {
			payload.ClienteEmail = req.ClienteEmail
		}
		_ = s.dispatcher.EnqueueComprobante(ctx, payload)
	}

	resp := ventaToResponse(&venta)
	for i, r := range resolved {
		resp.Items[i].Producto = r.nombre
	}
	return resp, nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Reverses a completed sale: stock back per line, one entrada movement per
// line with equal magnitude and opposite sign, estado → anulada. Cancelling an
// already-cancelled sale is rejected.

func (s *ventaService) AnularVenta(ctx context.Context, id, usuarioID uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("venta no encontrada")
	}
	if venta.Estado != "completada" {
		return errors.New("la venta ya esta anulada")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// CAS first: two clients cancelling the same venta both pass the
		// pre-check above, but only one flips completada→anulada. The loser
		// aborts here, before any stock moves.
		if err := s.repo.UpdateEstadoTx(tx, id, "completada", "anulada"); err != nil {
			if errors.Is(err, repository.ErrEstadoConflicto) {
				return errors.New("la venta ya esta anulada")
			}
			return err
		}

		for _, item := range venta.Items {
			prodBefore, _ := s.productoRepo.FindByIDTx(tx, item.ProductoID)
			stockAntes := 0
			if prodBefore != nil {
				stockAntes = prodBefore.StockActual
			}

			if err := s.productoRepo.RestaurarStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
				return err
			}

			ventaRef := venta.ID
			usuario := usuarioID
			mov := &model.MovimientoStock{
				ProductoID:    item.ProductoID,
				Tipo:          "entrada",
				Cantidad:      item.Cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes + item.Cantidad,
				Motivo:        fmt.Sprintf("Anulacion venta #%d — %s", venta.NumeroTicket, motivo),
				UsuarioID:     &usuario,
				ReferenciaID:  &ventaRef,
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	return ventaToResponse(venta), nil
}

// ListVentas returns a paginated list of sales filtered by date and estado.
// Default filter: today's completed sales. estado=anulada lists the separate
// "deleted sales" view.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = "completada"
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.ItemVentaResponse{
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}
	return &dto.VentaResponse{
		ID:               v.ID.String(),
		NumeroTicket:     v.NumeroTicket,
		Items:            items,
		Subtotal:         v.Subtotal,
		DescuentoTotal:   v.DescuentoTotal,
		Total:            v.Total,
		MetodoPago:       v.MetodoPago,
		EfectivoRecibido: v.EfectivoRecibido,
		Vuelto:           v.Vuelto,
		Estado:           v.Estado,
		CreatedAt:        v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
