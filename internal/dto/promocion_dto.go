package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPromocionRequest struct {
	Nombre         string          `json:"nombre"          validate:"required,min=2,max=120"`
	DescuentoTipo  string          `json:"descuento_tipo"  validate:"required,oneof=porcentaje fijo"`
	DescuentoValor decimal.Decimal `json:"descuento_valor" validate:"required"`
	FechaInicio    string          `json:"fecha_inicio"    validate:"required,datetime=2006-01-02"`
	FechaFin       string          `json:"fecha_fin"       validate:"required,datetime=2006-01-02"`
	ProductoIDs    []string        `json:"producto_ids"    validate:"omitempty,dive,uuid"`
}

type ActualizarPromocionRequest struct {
	Nombre         *string          `json:"nombre"          validate:"omitempty,min=2,max=120"`
	DescuentoTipo  *string          `json:"descuento_tipo"  validate:"omitempty,oneof=porcentaje fijo"`
	DescuentoValor *decimal.Decimal `json:"descuento_valor"`
	FechaInicio    *string          `json:"fecha_inicio"    validate:"omitempty,datetime=2006-01-02"`
	FechaFin       *string          `json:"fecha_fin"       validate:"omitempty,datetime=2006-01-02"`
	Activo         *bool            `json:"activo"`
	ProductoIDs    []string         `json:"producto_ids"    validate:"omitempty,dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PromocionResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	DescuentoTipo  string          `json:"descuento_tipo"`
	DescuentoValor decimal.Decimal `json:"descuento_valor"`
	FechaInicio    string          `json:"fecha_inicio"`
	FechaFin       string          `json:"fecha_fin"`
	Activo         bool            `json:"activo"`
	Vigente        bool            `json:"vigente"` // activo && hoy dentro de la ventana
	ProductoIDs    []string        `json:"producto_ids"`
}
