package handlers

import (
	"net/http"

	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes admin-side account provisioning.
type UserHandler struct {
	Service *services.UserService
}

// POST /api/users
func (h UserHandler) Create(c *gin.Context) {
	var req services.CreateUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := h.Service.CreateUser(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "user created, credentials sent by email",
		"user":    user,
	})
}
