package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Promocion is a time-bounded discount rule applied to a set of products.
// DescuentoTipo: "porcentaje" | "fijo". A promotion applies only while
// Activo and now ∈ [FechaInicio, FechaFin].
type Promocion struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string          `gorm:"not null"`
	DescuentoTipo  string          `gorm:"type:varchar(20);not null"`
	DescuentoValor decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FechaInicio    time.Time       `gorm:"not null"`
	FechaFin       time.Time       `gorm:"not null"`
	Activo         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Productos []Producto `gorm:"many2many:promocion_productos"`
}

func (Promocion) TableName() string { return "promociones" }
