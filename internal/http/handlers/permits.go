package handlers

import (
	"net/http"

	"busbooking/internal/domain/models"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

type PermitHandler struct {
	Service *services.PermitService
}

// GET /api/permits
func (h PermitHandler) List(c *gin.Context) {
	filter := models.PermitFilter{
		Status:      c.Query("status"),
		VehicleType: c.Query("vehicle_type"),
	}
	permits, err := h.Service.ListPermits(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permits": permits})
}

// GET /api/permits/:id
func (h PermitHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	permit, err := h.Service.GetPermit(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, permit)
}

// POST /api/permits
func (h PermitHandler) Create(c *gin.Context) {
	var permit models.Permit
	if !BindJSONOrError(c, &permit) {
		return
	}
	created, err := h.Service.CreatePermit(permit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/permits/:id
func (h PermitHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var permit models.Permit
	if !BindJSONOrError(c, &permit) {
		return
	}
	updated, err := h.Service.UpdatePermit(id, permit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/permits/:id
func (h PermitHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.DeletePermit(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "permit deleted"})
}
