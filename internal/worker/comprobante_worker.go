package worker

// comprobante_worker.go
// Renders receipt PDFs off the request path: sale tickets and online-order
// pickup tickets. When the buyer left an email address, an email job is
// chained with the PDF attached.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/r34335132-lang/Farmacia-sub000/internal/infra"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type ComprobanteWorker struct {
	ventaRepo      repository.VentaRepository
	pedidoRepo     repository.PedidoRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	nombreFarmacia string
	pdfStoragePath string
}

func NewComprobanteWorker(
	ventaRepo repository.VentaRepository,
	pedidoRepo repository.PedidoRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	nombreFarmacia string,
	pdfStoragePath string,
) *ComprobanteWorker {
	return &ComprobanteWorker{
		ventaRepo:      ventaRepo,
		pedidoRepo:     pedidoRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		nombreFarmacia: nombreFarmacia,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process renders the PDF for one venta or pedido.
func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ComprobanteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("comprobante_worker: invalid payload")
		SendToDLQ(ctx, w.rdb, QueueComprobante, "comprobante", raw, "unmarshal: "+err.Error(), 1)
		return
	}

	id, err := uuid.Parse(payload.ReferenciaID)
	if err != nil {
		log.Error().Str("referencia_id", payload.ReferenciaID).Msg("comprobante_worker: invalid referencia_id")
		SendToDLQ(ctx, w.rdb, QueueComprobante, "comprobante", raw, "invalid referencia_id", 1)
		return
	}

	var pdfPath, subject, body string
	switch payload.Tipo {
	case "venta":
		venta, err := w.ventaRepo.FindByID(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("venta_id", payload.ReferenciaID).Msg("comprobante_worker: venta not found")
			SendToDLQ(ctx, w.rdb, QueueComprobante, "comprobante", raw, "venta not found", 1)
			return
		}
		pdfPath, err = infra.GenerarTicketVenta(venta, w.nombreFarmacia, w.pdfStoragePath)
		if err != nil {
			log.Error().Err(err).Msg("comprobante_worker: pdf generation failed")
			SendToDLQ(ctx, w.rdb, QueueComprobante, "comprobante", raw, "pdf: "+err.Error(), 1)
			return
		}
		subject = fmt.Sprintf("Su compra en %s — Ticket #%d", w.nombreFarmacia, venta.NumeroTicket)
		body = "Gracias por su compra. Adjuntamos su comprobante."

	case "pedido":
		pedido, err := w.pedidoRepo.FindByID(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("pedido_id", payload.ReferenciaID).Msg("comprobante_worker: pedido not found")
			SendToDLQ(ctx, w.rdb, QueueComprobante, "comprobante", raw, "pedido not found", 1)
			return
		}
		pdfPath, err = infra.GenerarTicketPedido(pedido, w.nombreFarmacia, w.pdfStoragePath)
		if err != nil {
			log.Error().Err(err).Msg("comprobante_worker: pdf generation failed")
			SendToDLQ(ctx, w.rdb, QueueComprobante, "comprobante", raw, "pdf: "+err.Error(), 1)
			return
		}
		subject = fmt.Sprintf("Su pedido %s — codigo de retiro %s", pedido.NumeroPedido, pedido.CodigoRetiro)
		body = fmt.Sprintf("Presente el codigo %s en el mostrador para retirar su pedido.", pedido.CodigoRetiro)

	default:
		log.Warn().Str("tipo", payload.Tipo).Msg("comprobante_worker: unknown tipo")
		return
	}

	log.Info().Str("tipo", payload.Tipo).Str("pdf", pdfPath).Msg("comprobante_worker: pdf generated")

	if payload.ClienteEmail != nil && *payload.ClienteEmail != "" {
		_ = w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
			ToEmail: *payload.ClienteEmail,
			Subject: subject,
			Body:    body,
			PDFPath: pdfPath,
		})
	}
}
