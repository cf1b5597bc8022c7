package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	CodigoBarras     *string         `json:"codigo_barras"      validate:"omitempty,min=8,max=18"`
	Nombre           string          `json:"nombre"             validate:"required,min=2,max=120"`
	Descripcion      *string         `json:"descripcion"`
	Categoria        string          `json:"categoria"          validate:"required"`
	Seccion          *string         `json:"seccion"`
	PrecioVenta      decimal.Decimal `json:"precio_venta"       validate:"required,min=0"`
	StockActual      int             `json:"stock_actual"       validate:"min=0"`
	StockMinimo      int             `json:"stock_minimo"       validate:"min=0"`
	FechaVencimiento *string         `json:"fecha_vencimiento"  validate:"omitempty,datetime=2006-01-02"`
	RequiereReceta   bool            `json:"requiere_receta"`
}

type ActualizarProductoRequest struct {
	CodigoBarras     *string          `json:"codigo_barras"      validate:"omitempty,min=8,max=18"`
	Nombre           *string          `json:"nombre"             validate:"omitempty,min=2,max=120"`
	Descripcion      *string          `json:"descripcion"`
	Categoria        *string          `json:"categoria"`
	Seccion          *string          `json:"seccion"`
	PrecioVenta      *decimal.Decimal `json:"precio_venta"       validate:"omitempty,min=0"`
	StockMinimo      *int             `json:"stock_minimo"       validate:"omitempty,min=0"`
	FechaVencimiento *string          `json:"fecha_vencimiento"  validate:"omitempty,datetime=2006-01-02"`
	RequiereReceta   *bool            `json:"requiere_receta"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Barcode   string `form:"barcode"`
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Seccion   string `form:"seccion"`
	Activo    string `form:"activo"` // "" = activos, "false" = inactivos, "all" = todos
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID               string          `json:"id"`
	CodigoBarras     *string         `json:"codigo_barras"`
	Nombre           string          `json:"nombre"`
	Descripcion      *string         `json:"descripcion"`
	Categoria        string          `json:"categoria"`
	Seccion          *string         `json:"seccion"`
	PrecioVenta      decimal.Decimal `json:"precio_venta"`
	StockActual      int             `json:"stock_actual"`
	StockMinimo      int             `json:"stock_minimo"`
	FechaVencimiento *string         `json:"fecha_vencimiento"`
	RequiereReceta   bool            `json:"requiere_receta"`
	Activo           bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPrecioResponse is returned by the public price check endpoint.
// PrecioPromocional is nil when no promotion applies.
type ConsultaPrecioResponse struct {
	Nombre            string           `json:"nombre"`
	PrecioVenta       decimal.Decimal  `json:"precio_venta"`
	PrecioPromocional *decimal.Decimal `json:"precio_promocional"`
	Promocion         *string          `json:"promocion"`
	StockDisponible   int              `json:"stock_disponible"`
	Categoria         string           `json:"categoria"`
}
