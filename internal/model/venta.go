package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is an in-store, immediately-paid sale.
// Estado: "completada" | "anulada". Items are immutable once inserted;
// cancellation only flips estado and restores stock via inverse movimientos.
type Venta struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int       `gorm:"uniqueIndex;not null"`
	CajeroID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MetodoPago: "efectivo" | "tarjeta"
	MetodoPago string `gorm:"type:varchar(20);not null"`
	// EfectivoRecibido / Vuelto are set only when MetodoPago = "efectivo"
	EfectivoRecibido *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Vuelto           *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado           string           `gorm:"type:varchar(20);not null;default:'completada'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Items  []VentaItem `gorm:"foreignKey:VentaID"`
	Cajero *Usuario    `gorm:"foreignKey:CajeroID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaItem freezes the unit price at sale time — later price changes never
// alter historical tickets.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaItem) TableName() string { return "venta_items" }
