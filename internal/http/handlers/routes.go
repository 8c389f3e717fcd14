package handlers

import (
	"net/http"

	"busbooking/internal/domain/models"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	Service *services.RouteService
}

// GET /api/routes
func (h RouteHandler) List(c *gin.Context) {
	filter := models.RouteFilter{
		Status:      c.Query("status"),
		RouteNumber: c.Query("route_number"),
	}
	routes, err := h.Service.ListRoutes(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// GET /api/routes/:id
func (h RouteHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	route, err := h.Service.GetRoute(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// POST /api/routes
func (h RouteHandler) Create(c *gin.Context) {
	var rt models.Route
	if !BindJSONOrError(c, &rt) {
		return
	}
	created, err := h.Service.CreateRoute(rt)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/routes/:id
func (h RouteHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var rt models.Route
	if !BindJSONOrError(c, &rt) {
		return
	}
	updated, err := h.Service.UpdateRoute(id, rt)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/routes/:id
func (h RouteHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteRoute(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "route deleted"})
}
