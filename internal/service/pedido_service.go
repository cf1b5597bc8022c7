package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/model"
	"github.com/r34335132-lang/Farmacia-sub000/internal/pickup"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"
	"github.com/r34335132-lang/Farmacia-sub000/internal/worker"
	"github.com/r34335132-lang/Farmacia-sub000/internal/ws"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// transicionesPedido encodes the order lifecycle. entregado and cancelado are
// terminal: no key, no way out.
var transicionesPedido = map[string][]string{
	model.PedidoPendiente:  {model.PedidoPreparando, model.PedidoCancelado},
	model.PedidoPreparando: {model.PedidoListo, model.PedidoCancelado},
	model.PedidoListo:      {model.PedidoEntregado, model.PedidoCancelado},
}

func transicionValida(desde, hacia string) bool {
	for _, t := range transicionesPedido[desde] {
		if t == hacia {
			return true
		}
	}
	return false
}

type PedidoService interface {
	CrearPedido(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	CambiarEstado(ctx context.Context, id, usuarioID uuid.UUID, estado string) (*dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	BuscarPorCodigo(ctx context.Context, codigo string) (*dto.PedidoResponse, error)
	ListPedidos(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
}

type pedidoService struct {
	repo           repository.PedidoRepository
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
	promociones    PromocionService
	dispatcher     *worker.Dispatcher
	rdb            *redis.Client
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	promociones PromocionService,
	dispatcher *worker.Dispatcher,
	rdb *redis.Client,
) PedidoService {
	return &pedidoService{
		repo:           repo,
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		promociones:    promociones,
		dispatcher:     dispatcher,
		rdb:            rdb,
	}
}

// generarCodigoRetiro draws pickup codes until one is free. Collisions at 32^6
// are vanishingly rare; five attempts is plenty.
func (s *pedidoService) generarCodigoRetiro(ctx context.Context) (string, error) {
	for intento := 0; intento < 5; intento++ {
		codigo, err := pickup.NewCode()
		if err != nil {
			return "", err
		}
		existe, err := s.repo.ExisteCodigoRetiro(ctx, codigo)
		if err != nil {
			return "", err
		}
		if !existe {
			return codigo, nil
		}
	}
	return "", errors.New("no se pudo generar un codigo de retiro unico")
}

func (s *pedidoService) generarNumeroPedido() (string, error) {
	sufijo, err := pickup.NewCode()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("P-%s-%s", time.Now().Format("20060102"), sufijo[:4]), nil
}

// ── CrearPedido ───────────────────────────────────────────────────────────────
// Public storefront checkout. Stock is reserved NOW, in the same transaction
// that creates the pedido: a customer who sees "pedido confirmado" owns those
// units until pickup or cancellation. Prices and names are snapshotted per
// line; the ticket survives later catalog edits.

func (s *pedidoService) CrearPedido(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	promos, err := s.promociones.Vigentes(ctx)
	if err != nil {
		return nil, fmt.Errorf("error consultando promociones: %w", err)
	}
	now := time.Now()

	type lineaPedido struct {
		productoID uuid.UUID
		nombre     string
		precio     decimal.Decimal
		cantidad   int
		descuento  decimal.Decimal
		subtotal   decimal.Decimal
	}

	var lineas []lineaPedido
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
			return nil, fmt.Errorf("producto %s no esta disponible", p.Nombre)
		}
		if p.RequiereReceta {
			return nil, fmt.Errorf("producto %s requiere receta y no puede pedirse online", p.Nombre)
		}
		if p.StockActual < item.Cantidad {
			return nil, fmt.Errorf("stock insuficiente de %s: disponible %d, solicitado %d", p.Nombre, p.StockActual, item.Cantidad)
		}

		precio, _ := ResolverPrecio(p, promos, now)
		descuentoLinea := p.PrecioVenta.Sub(precio).Mul(decimal.NewFromInt(int64(item.Cantidad)))
		lineSubtotal := precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))

		subtotal = subtotal.Add(lineSubtotal)
		descuentoTotal = descuentoTotal.Add(descuentoLinea)
		lineas = append(lineas, lineaPedido{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     precio,
			cantidad:   item.Cantidad,
			descuento:  descuentoLinea,
			subtotal:   lineSubtotal,
		})
	}

	numero, err := s.generarNumeroPedido()
	if err != nil {
		return nil, err
	}
	codigo, err := s.generarCodigoRetiro(ctx)
	if err != nil {
		return nil, err
	}

	var pedido model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pedido = model.Pedido{
			NumeroPedido:    numero,
			CodigoRetiro:    codigo,
			ClienteNombre:   req.ClienteNombre,
			ClienteTelefono: req.ClienteTelefono,
			ClienteEmail:    req.ClienteEmail,
			Subtotal:        subtotal,
			Descuento:       descuentoTotal,
			Total:           subtotal,
			Estado:          model.PedidoPendiente,
			Notas:           req.Notas,
		}
		for _, l := range lineas {
			pedido.Items = append(pedido.Items, model.PedidoItem{
				ProductoID:     l.productoID,
				ProductoNombre: l.nombre,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
				Descuento:      l.descuento,
				Subtotal:       l.subtotal,
			})
		}

		if err := s.repo.Create(ctx, tx, &pedido); err != nil {
			return err
		}

		for _, l := range lineas {
			// Snapshot inside the tx so repeated products chain their
			// StockAnterior/StockNuevo across lines
			prodBefore, err := s.productoRepo.FindByIDTx(tx, l.productoID)
			stockAntes := 0
			if err == nil && prodBefore != nil {
				stockAntes = prodBefore.StockActual
			}

			if err := s.productoRepo.DescontarStockTx(tx, l.productoID, l.cantidad); err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return fmt.Errorf("stock insuficiente de %s", l.nombre)
				}
				return fmt.Errorf("error reservando stock de %s: %w", l.nombre, err)
			}

			pedidoRef := pedido.ID
			mov := &model.MovimientoStock{
				ProductoID:    l.productoID,
				Tipo:          "salida",
				Cantidad:      -l.cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes - l.cantidad,
				Motivo:        fmt.Sprintf("Pedido %s", numero),
				ReferenciaID:  &pedidoRef,
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

	if s.rdb != nil {
		ws.Publicar(ctx, s.rdb, ws.Evento{
			Tipo:     ws.EventoPedidoNuevo,
			PedidoID: pedido.ID.String(),
			Estado:   pedido.Estado,
		})
	}

	if s.dispatcher != nil && req.ClienteEmail != nil && *req.ClienteEmail != "" {
		_ = s.dispatcher.EnqueueComprobante(ctx, worker.ComprobanteJobPayload{
			Tipo:         "pedido",
			ReferenciaID: pedido.ID.String(),
			ClienteEmail: req.ClienteEmail,
		})
	}

	log.Info().
		Str("numero_pedido", numero).
		Str("codigo_retiro", codigo).
		Int("items", len(lineas)).
		Msg("pedido creado")

	return pedidoToResponse(&pedido), nil
}

// ── CambiarEstado ─────────────────────────────────────────────────────────────
// Staff moves a pedido through its lifecycle. Illegal jumps are rejected
// before touching the DB. Cancelling returns every reserved unit in the same
// transaction that flips the estado, with one entrada movement per line.

func (s *pedidoService) CambiarEstado(ctx context.Context, id, usuarioID uuid.UUID, estado string) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}

	if !transicionValida(pedido.Estado, estado) {
		return nil, fmt.Errorf("transicion invalida: %s → %s", pedido.Estado, estado)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// CAS first: the estado only flips while the row still holds the one
		// this request validated against. A concurrent change aborts the tx
		// before any stock is restored.
		if err := s.repo.UpdateEstadoTx(tx, id, pedido.Estado, estado); err != nil {
			if errors.Is(err, repository.ErrEstadoConflicto) {
				return fmt.Errorf("el pedido ya no esta %s", pedido.Estado)
			}
			return err
		}

		if estado == model.PedidoCancelado {
			for _, item := range pedido.Items {
				prodBefore, _ := s.productoRepo.FindByIDTx(tx, item.ProductoID)
				stockAntes := 0
				if prodBefore != nil {
					stockAntes = prodBefore.StockActual
				}

				if err := s.productoRepo.RestaurarStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
					return err
				}

				pedidoRef := pedido.ID
				usuario := usuarioID
				mov := &model.MovimientoStock{
					ProductoID:    item.ProductoID,
					Tipo:          "entrada",
					Cantidad:      item.Cantidad,
					StockAnterior: stockAntes,
					StockNuevo:    stockAntes + item.Cantidad,
					Motivo:        fmt.Sprintf("Cancelacion pedido %s", pedido.NumeroPedido),
					UsuarioID:     &usuario,
					ReferenciaID:  &pedidoRef,
				}
				if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	pedido.Estado = estado

	if s.rdb != nil {
		ws.Publicar(ctx, s.rdb, ws.Evento{
			Tipo:     ws.EventoPedidoActualizado,
			PedidoID: pedido.ID.String(),
			Estado:   estado,
		})
	}

	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) BuscarPorCodigo(ctx context.Context, codigo string) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByCodigoRetiro(ctx, codigo)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) ListPedidos(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		items = append(items, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	items := make([]dto.ItemPedidoResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, dto.ItemPedidoResponse{
			ProductoID:     item.ProductoID.String(),
			ProductoNombre: item.ProductoNombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Descuento:      item.Descuento,
			Subtotal:       item.Subtotal,
		})
	}
	return &dto.PedidoResponse{
		ID:              p.ID.String(),
		NumeroPedido:    p.NumeroPedido,
		CodigoRetiro:    p.CodigoRetiro,
		ClienteNombre:   p.ClienteNombre,
		ClienteTelefono: p.ClienteTelefono,
		Items:           items,
		Subtotal:        p.Subtotal,
		Descuento:       p.Descuento,
		Total:           p.Total,
		Estado:          p.Estado,
		Notas:           p.Notas,
		CreatedAt:       p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:       p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
