package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stocktrack/inventory-api/internal/api/middleware"
	"github.com/stocktrack/inventory-api/internal/core/ports"
)

type MaterialHandler struct {
	materials ports.MaterialService
}

func NewMaterialHandler(materials ports.MaterialService) *MaterialHandler {
	return &MaterialHandler{materials: materials}
}

type materialRequest struct {
	SKU      string `json:"sku" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category,omitempty"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Unit     string `json:"unit,omitempty"`
	Location string `json:"location,omitempty"`
}

type materialUpdateRequest struct {
	SKU      string `json:"sku,omitempty"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	Quantity *int   `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit     string `json:"unit,omitempty"`
	Location string `json:"location,omitempty"`
}

// List returns all materials.
//
// @Summary      List materials
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Router       /materials [get]
func (h *MaterialHandler) List(c echo.Context) error {
	items, err := h.materials.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okData(items))
}

// Get returns a single material by id.
//
// @Summary      Get material
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Material id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /materials/{id} [get]
func (h *MaterialHandler) Get(c echo.Context) error {
	m, err := h.materials.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okData(m))
}

// Create adds a material.
//
// @Summary      Create material
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      materialRequest  true  "Material fields"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Router       /materials [post]
func (h *MaterialHandler) Create(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req materialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	m, err := h.materials.Create(c.Request().Context(), identity.UserID, ports.MaterialInput{
		SKU:      req.SKU,
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Location: req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, okData(m))
}

// Update applies a partial update.
//
// @Summary      Update material
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Material id"
// @Param        body  body      materialUpdateRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /materials/{id} [put]
func (h *MaterialHandler) Update(c echo.Context) error {
	var req materialUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	quantity := -1 // signals "leave unchanged"
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	m, err := h.materials.Update(c.Request().Context(), c.Param("id"), ports.MaterialInput{
		SKU:      req.SKU,
		Name:     req.Name,
		Category: req.Category,
		Quantity: quantity,
		Unit:     req.Unit,
		Location: req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okData(m))
}

// Delete removes a material.
//
// @Summary      Delete material
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Material id"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /materials/{id} [delete]
func (h *MaterialHandler) Delete(c echo.Context) error {
	if err := h.materials.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "material deleted"})
}
