package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a pharmacy catalog item. Stock is never written directly:
// every change goes through a venta, pedido, anulación or ajuste, each of
// which appends a MovimientoStock row inside the same transaction.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras *string   `gorm:"uniqueIndex"`
	Nombre       string    `gorm:"index;not null"`
	Descripcion  *string
	Categoria    string `gorm:"not null;default:'general'"`
	Seccion      *string
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockActual  int             `gorm:"not null;default:0;check:stock_actual >= 0"`
	StockMinimo  int             `gorm:"not null;default:5"`
	// FechaVencimiento is nil for non-perishables
	FechaVencimiento *time.Time
	RequiereReceta   bool `gorm:"not null;default:false"`
	Activo           bool `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Producto) TableName() string { return "productos" }
