package handlers

import (
	"net/http"

	"busbooking/internal/domain/models"
	"busbooking/internal/services"
	"busbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

type SeatMapHandler struct {
	Service *services.SeatMapService
}

type seatMapRequest struct {
	BusID  int64         `json:"bus_id"`
	Layout []models.Seat `json:"layout"`
}

// POST /api/seat-maps
func (h SeatMapHandler) Create(c *gin.Context) {
	var req seatMapRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	created, err := h.Service.CreateSeatMap(req.BusID, req.Layout)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /api/seat-maps/:id
func (h SeatMapHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	seatMap, err := h.Service.GetSeatMap(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, seatMap)
}

// GET /api/buses/:id/seat-map
func (h SeatMapHandler) GetByBus(c *gin.Context) {
	busID, ok := PathID(c, "id")
	if !ok {
		return
	}
	seatMap, err := h.Service.GetSeatMapByBus(busID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, seatMap)
}

// PUT /api/seat-maps/:id
func (h SeatMapHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req seatMapRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	updated, err := h.Service.UpdateSeatMap(id, req.Layout)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/seat-maps/:id
func (h SeatMapHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteSeatMap(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "seat map deleted"})
}

// GET /api/buses/:id/availability-matrix?date=YYYY-MM-DD
func (h SeatMapHandler) AvailabilityMatrix(c *gin.Context) {
	busID, ok := PathID(c, "id")
	if !ok {
		return
	}
	date, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err)
		return
	}
	matrix, err := h.Service.AvailabilityMatrix(busID, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bus_id": busID, "date": utils.FormatDate(date), "seats": matrix})
}
