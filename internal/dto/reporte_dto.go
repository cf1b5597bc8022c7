package dto

import "github.com/shopspring/decimal"

// ─── Filters ─────────────────────────────────────────────────────────────────

type ReporteVentasFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

// ResumenVentasResponse aggregates completed sales over a date range.
// Anuladas are always excluded.
type ResumenVentasResponse struct {
	Desde            string                     `json:"desde"`
	Hasta            string                     `json:"hasta"`
	TotalVentas      int64                      `json:"total_ventas"`
	IngresoTotal     decimal.Decimal            `json:"ingreso_total"`
	TicketPromedio   decimal.Decimal            `json:"ticket_promedio"`
	PorMetodoPago    map[string]int64           `json:"por_metodo_pago"`
	IngresoPorMetodo map[string]decimal.Decimal `json:"ingreso_por_metodo"`
}

type ProductoVendidoResponse struct {
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Cantidad   int             `json:"cantidad"`
	Ingreso    decimal.Decimal `json:"ingreso"`
}

// AlertaStockResponse flags a product at or below its minimum stock level.
type AlertaStockResponse struct {
	ProductoID  string `json:"producto_id"`
	Nombre      string `json:"nombre"`
	StockActual int    `json:"stock_actual"`
	StockMinimo int    `json:"stock_minimo"`
}

// VencimientoResponse classifies a product by expiry.
// Estado: "vencido" | "por_vencer"
type VencimientoResponse struct {
	ProductoID       string `json:"producto_id"`
	Nombre           string `json:"nombre"`
	FechaVencimiento string `json:"fecha_vencimiento"`
	DiasRestantes    int    `json:"dias_restantes"`
	Estado           string `json:"estado"`
}
