package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// CrearPedidoRequest is submitted by the public storefront — no auth.
type CrearPedidoRequest struct {
	ClienteNombre   string              `json:"cliente_nombre"   validate:"required,min=2,max=120"`
	ClienteTelefono string              `json:"cliente_telefono" validate:"required,min=6,max=20"`
	ClienteEmail    *string             `json:"cliente_email"    validate:"omitempty,email"`
	Items           []ItemPedidoRequest `json:"items"            validate:"required,min=1,dive"`
	Notas           *string             `json:"notas"            validate:"omitempty,max=500"`
}

type CambiarEstadoPedidoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=preparando listo entregado cancelado"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type PedidoFilter struct {
	Estado string `form:"estado"` // pendiente | preparando | listo | entregado | cancelado | all
	Fecha  string `form:"fecha"`  // YYYY-MM-DD
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	ProductoID     string          `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PedidoResponse struct {
	ID              string               `json:"id"`
	NumeroPedido    string               `json:"numero_pedido"`
	CodigoRetiro    string               `json:"codigo_retiro"`
	ClienteNombre   string               `json:"cliente_nombre"`
	ClienteTelefono string               `json:"cliente_telefono"`
	Items           []ItemPedidoResponse `json:"items"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Descuento       decimal.Decimal      `json:"descuento"`
	Total           decimal.Decimal      `json:"total"`
	Estado          string               `json:"estado"`
	Notas           *string              `json:"notas,omitempty"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
