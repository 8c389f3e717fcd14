package handlers

import (
	"net/http"

	"busbooking/internal/domain/models"
	"busbooking/internal/services"
	"busbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	Service  *services.TripService
	Bookings *services.BookingService
}

type createTripRequest struct {
	RouteID         int64  `json:"route_id"`
	BusID           int64  `json:"bus_id"`
	DepartureDate   string `json:"departure_date"`
	ArrivalDate     string `json:"arrival_date"`
	PaymentRequired bool   `json:"payment_required"`
}

// POST /api/trips
func (h TripHandler) Create(c *gin.Context) {
	var req createTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	departure, err := utils.ParseDateTime(req.DepartureDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid departure_date, expected YYYY-MM-DD HH:MM:SS", err)
		return
	}
	arrival, err := utils.ParseDateTime(req.ArrivalDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid arrival_date, expected YYYY-MM-DD HH:MM:SS", err)
		return
	}

	trip, err := h.Service.CreateTrip(services.CreateTripRequest{
		RouteID:         req.RouteID,
		BusID:           req.BusID,
		DepartureDate:   departure,
		ArrivalDate:     arrival,
		PaymentRequired: req.PaymentRequired,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// GET /api/trips
func (h TripHandler) List(c *gin.Context) {
	filter := models.TripFilter{Status: c.Query("status")}
	if v := c.Query("route_id"); v != "" {
		if id, err := utils.ParseID(v); err == nil {
			filter.RouteID = id
		}
	}
	if v := c.Query("bus_id"); v != "" {
		if id, err := utils.ParseID(v); err == nil {
			filter.BusID = id
		}
	}
	if v := c.Query("date_from"); v != "" {
		if t, err := utils.ParseDate(v); err == nil {
			filter.DateFrom = t
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := utils.ParseDate(v); err == nil {
			filter.DateTo = t
		}
	}

	trips, err := h.Service.ListTrips(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GET /api/trips/:id
func (h TripHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	details, err := h.Service.GetTripDetails(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

type updateTripRequest struct {
	Status          *string `json:"status,omitempty"`
	DepartureDate   *string `json:"departure_date,omitempty"`
	ArrivalDate     *string `json:"arrival_date,omitempty"`
	PaymentRequired *bool   `json:"payment_required,omitempty"`
}

// PUT /api/trips/:id
func (h TripHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req updateTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	patch := models.TripPatch{Status: req.Status, PaymentRequired: req.PaymentRequired}
	if req.DepartureDate != nil {
		t, err := utils.ParseDateTime(*req.DepartureDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid departure_date", err)
			return
		}
		patch.DepartureDate = &t
	}
	if req.ArrivalDate != nil {
		t, err := utils.ParseDateTime(*req.ArrivalDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid arrival_date", err)
			return
		}
		patch.ArrivalDate = &t
	}

	updated, err := h.Service.UpdateTrip(id, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/trips/:id
func (h TripHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteTrip(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip deleted"})
}

// GET /api/trips/search?from=&to=&date=YYYY-MM-DD
func (h TripHandler) Search(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		RespondError(c, http.StatusBadRequest, "from and to stops are required", nil)
		return
	}
	date, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err)
		return
	}

	trips, err := h.Bookings.FindAvailableTrips(from, to, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GET /api/trips/:id/availability?from=&to=&seats=N
func (h TripHandler) CheckAvailability(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		RespondError(c, http.StatusBadRequest, "from and to stops are required", nil)
		return
	}
	seats := 1
	if v := c.Query("seats"); v != "" {
		if n, err := utils.ParseID(v); err == nil && n > 0 {
			seats = int(n)
		}
	}

	result, err := h.Bookings.CheckTripAvailability(id, from, to, seats)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/trips/:id/seats?from=&to=
func (h TripHandler) SeatAvailability(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		RespondError(c, http.StatusBadRequest, "from and to stops are required", nil)
		return
	}

	seats, err := h.Bookings.SeatAvailability(id, from, to)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": id, "seats": seats})
}

// POST /api/trips/:id/reconcile-seats
func (h TripHandler) ReconcileSeats(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	available, err := h.Bookings.ReconcileAvailableSeats(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": id, "available_seats": available})
}
