package handler

import (
	"net/http"
	"strconv"

	"github.com/r34335132-lang/Farmacia-sub000/internal/apierror"
	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// ResumenVentas godoc
// @Summary      Resumen de ventas
// @Description  Totales, ticket promedio y desglose por metodo de pago sobre un rango de fechas. Ventas anuladas excluidas.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        hasta query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200 {object} dto.ResumenVentasResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/ventas [get]
func (h *ReportesHandler) ResumenVentas(c *gin.Context) {
	var filter dto.ReporteVentasFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ResumenVentas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar resumen"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopProductos godoc
// @Summary      Productos mas vendidos
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        hasta query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        limit query int    false "Tamano del ranking (default 10)"
// @Success      200 {array} dto.ProductoVendidoResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/top-productos [get]
func (h *ReportesHandler) TopProductos(c *gin.Context) {
	var filter dto.ReporteVentasFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := h.svc.TopProductos(c.Request.Context(), filter, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar ranking"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Vencimientos godoc
// @Summary      Productos vencidos y por vencer
// @Description  Lista productos ya vencidos y los que vencen dentro de la ventana de alerta configurada.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.VencimientoResponse
// @Router       /v1/reportes/vencimientos [get]
func (h *ReportesHandler) Vencimientos(c *gin.Context) {
	resp, err := h.svc.Vencimientos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar vencimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
