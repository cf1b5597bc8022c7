package dto

// AjustarStockRequest adjusts stock manually (restock, merma, recuento).
// Direccion: "entrada" adds units, "salida" removes them.
type AjustarStockRequest struct {
	Direccion string `json:"direccion" validate:"required,oneof=entrada salida"`
	Cantidad  int    `json:"cantidad"  validate:"required,min=1"`
	Motivo    string `json:"motivo"    validate:"required,min=3,max=200"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	Producto      string  `json:"producto"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo"`
	UsuarioID     *string `json:"usuario_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
