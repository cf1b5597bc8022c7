package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido online.
// pendiente → preparando → listo → entregado, con salida lateral → cancelado.
// "entregado" y "cancelado" son terminales.
const (
	PedidoPendiente  = "pendiente"
	PedidoPreparando = "preparando"
	PedidoListo      = "listo"
	PedidoEntregado  = "entregado"
	PedidoCancelado  = "cancelado"
)

// Pedido is an online-submitted, pay-on-pickup order. Stock is reserved at
// creation time; cancellation from any non-terminal state returns it.
type Pedido struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroPedido string    `gorm:"uniqueIndex;not null"`
	// CodigoRetiro: 6 chars, alphabet without 0/1/I/O — the customer reads it
	// over the counter, so ambiguous glyphs are excluded.
	CodigoRetiro    string `gorm:"type:varchar(6);uniqueIndex;not null"`
	ClienteNombre   string `gorm:"not null"`
	ClienteTelefono string `gorm:"not null"`
	ClienteEmail    *string
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	Notas           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []PedidoItem `gorm:"foreignKey:PedidoID"`
}

func (Pedido) TableName() string { return "pedidos" }

// PedidoItem snapshots producto_nombre and precio_unitario: the ticket must
// survive catalog renames and price updates.
type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoNombre string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PedidoItem) TableName() string { return "pedido_items" }
