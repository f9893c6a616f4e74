package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type verifyRequest struct {
	Password string `json:"password"`
}

// VerifyAdmin exchanges an admin password for a terminal admin token.
func (h *Handler) VerifyAdmin(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.service.Authorize(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, ErrNotAdmin) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin password"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}
