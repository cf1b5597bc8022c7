package handler

import (
	"net/http"

	"github.com/r34335132-lang/Farmacia-sub000/internal/apierror"
	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/middleware"
	"github.com/r34335132-lang/Farmacia-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PedidosHandler exposes the staff side of online orders: listing the queue,
// looking up by pickup code, and moving pedidos through their lifecycle.
// Creation lives in TiendaHandler — customers don't authenticate.
type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler { return &PedidosHandler{svc: svc} }

// ListarPedidos godoc
// @Summary      Listar pedidos
// @Description  Cola de pedidos online, filtrable por estado y fecha.
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "pendiente | preparando | listo | entregado | cancelado | all"
// @Param        fecha  query string false "Fecha YYYY-MM-DD"
// @Param        page   query int    false "Pagina (default 1)"
// @Param        limit  query int    false "Registros por pagina (default 50)"
// @Success      200    {object} dto.PedidoListResponse
// @Failure      400    {object} apierror.APIError
// @Router       /v1/pedidos [get]
func (h *PedidosHandler) ListarPedidos(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListPedidos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pedidos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPedido godoc
// @Summary      Obtener pedido por ID
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del pedido"
// @Success      200 {object} dto.PedidoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pedidos/{id} [get]
func (h *PedidosHandler) ObtenerPedido(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarPorCodigo godoc
// @Summary      Buscar pedido por codigo de retiro
// @Description  Busqueda case-insensitive por el codigo que el cliente dicta en mostrador.
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        codigo path string true "Codigo de retiro (6 caracteres)"
// @Success      200 {object} dto.PedidoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pedidos/codigo/{codigo} [get]
func (h *PedidosHandler) BuscarPorCodigo(c *gin.Context) {
	resp, err := h.svc.BuscarPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary      Cambiar estado de un pedido
// @Description  Avanza el ciclo pendiente → preparando → listo → entregado, o cancela (restaurando stock). Transiciones ilegales se rechazan.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                          true "UUID del pedido"
// @Param        body body dto.CambiarEstadoPedidoRequest true "Nuevo estado"
// @Success      200  {object} dto.PedidoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/pedidos/{id}/estado [put]
func (h *PedidosHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, usuarioID, req.Estado)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
