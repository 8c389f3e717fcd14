package handlers

import (
	"net/http"

	"busbooking/internal/docs"
	"busbooking/internal/domain/models"
	"busbooking/internal/http/middleware"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Service *services.BookingService
	Users   services.UserStore
}

// POST /api/bookings
func (h BookingHandler) Create(c *gin.Context) {
	var req services.CreateBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	caller := middleware.RequestUser(c)
	if caller.Role != "admin" || req.UserID == 0 {
		req.UserID = caller.UserID
	}
	if len(req.SeatIDs) == 0 {
		RespondError(c, http.StatusBadRequest, "seat_ids are required", nil)
		return
	}
	if req.FromStop == "" || req.ToStop == "" {
		RespondError(c, http.StatusBadRequest, "from_stop and to_stop are required", nil)
		return
	}

	booking, err := h.Service.CreateBooking(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GET /api/bookings/:id
func (h BookingHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	details, err := h.Service.BookingDetails(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !h.mayAccess(c, details.Booking) {
		return
	}
	c.JSON(http.StatusOK, details)
}

// PUT /api/bookings/:id
func (h BookingHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	existing, err := h.Service.BookingDetails(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !h.mayAccess(c, existing.Booking) {
		return
	}

	var patch models.BookingPatch
	if !BindJSONOrError(c, &patch) {
		return
	}
	updated, err := h.Service.UpdateBooking(id, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/bookings/:id
func (h BookingHandler) Cancel(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	existing, err := h.Service.BookingDetails(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !h.mayAccess(c, existing.Booking) {
		return
	}

	cancelled, err := h.Service.CancelBooking(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// GET /api/bookings/me?status=
func (h BookingHandler) MyBookings(c *gin.Context) {
	caller := middleware.RequestUser(c)
	bookings, err := h.Service.UserBookings(caller.UserID, c.Query("status"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GET /api/bookings
func (h BookingHandler) ListAll(c *gin.Context) {
	bookings, err := h.Service.AllBookings()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GET /api/bookings/:id/e-ticket
func (h BookingHandler) ETicket(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	details, err := h.Service.BookingDetails(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !h.mayAccess(c, details.Booking) {
		return
	}
	if details.Trip == nil || details.Route == nil || details.Bus == nil {
		RespondError(c, http.StatusInternalServerError, "booking references are incomplete", nil)
		return
	}

	user, err := h.Users.GetUser(details.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	pdf, filename, err := docs.BuildETicket(docs.ETicketData{
		Booking: details.Booking,
		Trip:    *details.Trip,
		Route:   *details.Route,
		Bus:     *details.Bus,
		User:    user,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to render e-ticket", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// mayAccess rejects access to another user's booking unless the caller is an
// admin. Writes the response itself when access is denied.
func (h BookingHandler) mayAccess(c *gin.Context, booking models.Booking) bool {
	caller := middleware.RequestUser(c)
	if caller.Role == "admin" || caller.UserID == booking.UserID {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "forbidden: not your booking"})
	return false
}
