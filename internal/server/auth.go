package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DCWS-dev/ai-landing/internal/storage"
)

type authRequest struct {
	Password string `json:"password"`
}

// handleAuth exchanges the operator password for an admin bearer token.
func (s *Server) handleAuth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	if !s.auth.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := s.auth.Mint()
	if err != nil {
		s.log.Error("mint admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server misconfigured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// handleListUsers returns every user record plus paid/pending counts.
// Admin only.
func (s *Server) handleListUsers(c *gin.Context) {
	if !s.auth.Authorize(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		s.log.Error("list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	paid, pending := 0, 0
	for i := range users {
		switch users[i].Status {
		case storage.StatusPaid:
			paid++
		case storage.StatusPending:
			pending++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(users),
		"paid":    paid,
		"pending": pending,
		"users":   users,
	})
}
