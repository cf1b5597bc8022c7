package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock registra cada cambio de stock de un producto.
// Tipo: "entrada" (positivo) | "salida" (negativo).
// Los registros son inmutables — nunca se modifican ni eliminan; las
// anulaciones crean movimientos inversos.
type MovimientoStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo       string    `gorm:"type:varchar(10);not null"`
	// Cantidad is signed: salida carries a negative value, entrada positive
	Cantidad      int `gorm:"not null"`
	StockAnterior int `gorm:"not null"`
	StockNuevo    int `gorm:"not null"`
	Motivo        string
	UsuarioID     *uuid.UUID `gorm:"type:uuid"`
	// ReferenciaID links the originating venta or pedido
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoStock) TableName() string { return "movimientos_stock" }
