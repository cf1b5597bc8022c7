package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`                     // YYYY-MM-DD; empty = today
	Estado string `form:"estado,default=completada"` // completada | anulada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type RegistrarVentaRequest struct {
	Items []ItemVentaRequest `json:"items" validate:"required,min=1,dive"`
	// MetodoPago: "efectivo" requires EfectivoRecibido >= total
	MetodoPago       string           `json:"metodo_pago"       validate:"required,oneof=efectivo tarjeta"`
	EfectivoRecibido *decimal.Decimal `json:"efectivo_recibido"`
	// ClienteEmail: optional — when present the email worker mails the receipt PDF
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID               string              `json:"id"`
	NumeroTicket     int                 `json:"numero_ticket"`
	Items            []ItemVentaResponse `json:"items"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	DescuentoTotal   decimal.Decimal     `json:"descuento_total"`
	Total            decimal.Decimal     `json:"total"`
	MetodoPago       string              `json:"metodo_pago"`
	EfectivoRecibido *decimal.Decimal    `json:"efectivo_recibido,omitempty"`
	Vuelto           *decimal.Decimal    `json:"vuelto,omitempty"`
	Estado           string              `json:"estado"`
	CreatedAt        string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
