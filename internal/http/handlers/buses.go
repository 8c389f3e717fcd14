package handlers

import (
	"net/http"

	"busbooking/internal/domain/models"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

type BusHandler struct {
	Service *services.BusService
}

// GET /api/buses
func (h BusHandler) List(c *gin.Context) {
	filter := models.BusFilter{
		Status:       c.Query("status"),
		Manufacturer: c.Query("manufacturer"),
	}
	buses, err := h.Service.ListBuses(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buses": buses})
}

// GET /api/buses/:id
func (h BusHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	bus, err := h.Service.GetBus(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bus)
}

// POST /api/buses
func (h BusHandler) Create(c *gin.Context) {
	var bus models.Bus
	if !BindJSONOrError(c, &bus) {
		return
	}
	created, err := h.Service.CreateBus(bus)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/buses/:id
func (h BusHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var bus models.Bus
	if !BindJSONOrError(c, &bus) {
		return
	}
	updated, err := h.Service.UpdateBus(id, bus)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/buses/:id
func (h BusHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteBus(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bus deleted"})
}
