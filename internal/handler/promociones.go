package handler

import (
	"net/http"

	"github.com/r34335132-lang/Farmacia-sub000/internal/apierror"
	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PromocionesHandler struct{ svc service.PromocionService }

func NewPromocionesHandler(svc service.PromocionService) *PromocionesHandler {
	return &PromocionesHandler{svc: svc}
}

// CrearPromocion godoc
// @Summary      Crear promocion
// @Description  Alta de una regla de descuento (porcentaje o monto fijo) con ventana de vigencia y productos asociados.
// @Tags         promociones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPromocionRequest true "Promocion"
// @Success      201  {object} dto.PromocionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/promociones [post]
func (h *PromocionesHandler) CrearPromocion(c *gin.Context) {
	var req dto.CrearPromocionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActualizarPromocion godoc
// @Summary      Actualizar promocion
// @Tags         promociones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                         true "UUID de la promocion"
// @Param        body body dto.ActualizarPromocionRequest true "Campos a actualizar"
// @Success      200  {object} dto.PromocionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/promociones/{id} [put]
func (h *PromocionesHandler) ActualizarPromocion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarPromocionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPromociones godoc
// @Summary      Listar promociones
// @Tags         promociones
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.PromocionResponse
// @Router       /v1/promociones [get]
func (h *PromocionesHandler) ListarPromociones(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar promociones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactivarPromocion godoc
// @Summary      Desactivar promocion
// @Tags         promociones
// @Security     BearerAuth
// @Param        id path string true "UUID de la promocion"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/promociones/{id} [delete]
func (h *PromocionesHandler) DesactivarPromocion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
