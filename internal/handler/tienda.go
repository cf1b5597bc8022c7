package handler

import (
	"net/http"

	"github.com/r34335132-lang/Farmacia-sub000/internal/apierror"
	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// TiendaHandler serves the public storefront: catalog browsing, price check
// by barcode, order creation and order tracking. No authentication — customers
// never log in. Nothing here mutates stock except CrearPedido, which goes
// through the same transactional reservation path as a sale.
type TiendaHandler struct {
	productos service.ProductoService
	pedidos   service.PedidoService
}

func NewTiendaHandler(productos service.ProductoService, pedidos service.PedidoService) *TiendaHandler {
	return &TiendaHandler{productos: productos, pedidos: pedidos}
}

// Catalogo godoc
// @Summary      Catalogo publico
// @Description  Productos activos con filtros por nombre y categoria. Siempre excluye inactivos.
// @Tags         tienda
// @Produce      json
// @Param        nombre    query string false "Busqueda parcial por nombre"
// @Param        categoria query string false "Categoria exacta"
// @Param        page      query int    false "Pagina (default 1)"
// @Param        limit     query int    false "Registros por pagina (default 20)"
// @Success      200 {object} dto.ProductoListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/tienda/catalogo [get]
func (h *TiendaHandler) Catalogo(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	// The storefront never sees inactive products, whatever the query says
	filter.Activo = ""

	resp, err := h.productos.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar catalogo"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConsultarPrecio godoc
// @Summary      Consulta de precio por codigo de barras (sin autenticacion)
// @Description  Precio de lista y precio promocional vigente si aplica. Cacheado en Redis.
// @Tags         tienda
// @Produce      json
// @Param        barcode path string true "Codigo de barras"
// @Success      200 {object} dto.ConsultaPrecioResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/tienda/precio/{barcode} [get]
func (h *TiendaHandler) ConsultarPrecio(c *gin.Context) {
	resp, err := h.productos.ConsultarPrecio(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearPedido godoc
// @Summary      Crear pedido online
// @Description  Reserva stock y devuelve numero de pedido y codigo de retiro. Pago en mostrador al retirar.
// @Tags         tienda
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearPedidoRequest true "Pedido"
// @Success      201  {object} dto.PedidoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/tienda/pedidos [post]
func (h *TiendaHandler) CrearPedido(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.pedidos.CrearPedido(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SeguirPedido godoc
// @Summary      Seguimiento de pedido por codigo de retiro
// @Tags         tienda
// @Produce      json
// @Param        codigo path string true "Codigo de retiro (6 caracteres)"
// @Success      200 {object} dto.PedidoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/tienda/pedidos/{codigo} [get]
func (h *TiendaHandler) SeguirPedido(c *gin.Context) {
	resp, err := h.pedidos.BuscarPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
