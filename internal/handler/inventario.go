package handler

import (
	"net/http"
	"strconv"

	"github.com/r34335132-lang/Farmacia-sub000/internal/apierror"
	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/middleware"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"
	"github.com/r34335132-lang/Farmacia-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// AjustarStock godoc
// @Summary      Ajustar stock manualmente
// @Description  Entrada (reposicion) o salida (merma, recuento) con motivo obligatorio. Genera el movimiento de auditoria en la misma transaccion.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del producto"
// @Param        body body dto.AjustarStockRequest true "Ajuste"
// @Success      200  {object} dto.ProductoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/inventario/{id}/ajuste [post]
func (h *InventarioHandler) AjustarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AjustarStock(c.Request.Context(), id, usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos godoc
// @Summary      Listar movimientos de stock
// @Description  Historial append-only de cambios de stock, filtrable por producto y tipo.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id query string false "UUID del producto"
// @Param        tipo        query string false "entrada | salida"
// @Param        page        query int    false "Pagina (default 1)"
// @Param        limit       query int    false "Registros por pagina (default 100)"
// @Success      200 {object} dto.MovimientoListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventario/movimientos [get]
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	filter := repository.MovimientoStockFilter{
		Tipo: c.Query("tipo"),
	}
	if pidStr := c.Query("producto_id"); pidStr != "" {
		pid, err := uuid.Parse(pidStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
			return
		}
		filter.ProductoID = &pid
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AlertasBajoStock godoc
// @Summary      Productos en o bajo stock minimo
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AlertaStockResponse
// @Router       /v1/inventario/alertas [get]
func (h *InventarioHandler) AlertasBajoStock(c *gin.Context) {
	resp, err := h.svc.AlertasBajoStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar alertas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
