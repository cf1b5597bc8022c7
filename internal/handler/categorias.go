package handler

import (
	"net/http"

	"github.com/r34335132-lang/Farmacia-sub000/internal/apierror"
	"github.com/r34335132-lang/Farmacia-sub000/internal/dto"
	"github.com/r34335132-lang/Farmacia-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoriasHandler struct{ svc service.CategoriaService }

func NewCategoriasHandler(svc service.CategoriaService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

// CrearCategoria godoc
// @Summary      Crear categoria
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCategoriaRequest true "Categoria"
// @Success      201  {object} dto.CategoriaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/categorias [post]
func (h *CategoriasHandler) CrearCategoria(c *gin.Context) {
	var req dto.CrearCategoriaRequest
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

// ActualizarCategoria godoc
// @Summary      Actualizar categoria
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                         true "UUID de la categoria"
// @Param        body body dto.ActualizarCategoriaRequest true "Campos a actualizar"
// @Success      200  {object} dto.CategoriaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/categorias/{id} [put]
func (h *CategoriasHandler) ActualizarCategoria(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarCategoriaRequest
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

// ListarCategorias godoc
// @Summary      Listar categorias activas
// @Tags         categorias
// @Produce      json
// @Success      200 {array} dto.CategoriaResponse
// @Router       /v1/categorias [get]
func (h *CategoriasHandler) ListarCategorias(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar categorias"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactivarCategoria godoc
// @Summary      Desactivar categoria
// @Tags         categorias
// @Security     BearerAuth
// @Param        id path string true "UUID de la categoria"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/categorias/{id} [delete]
func (h *CategoriasHandler) DesactivarCategoria(c *gin.Context) {
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
