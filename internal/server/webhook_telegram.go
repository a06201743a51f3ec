package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot/models"
)

// handleTelegramWebhook receives Bot API updates. Dispatch is fully
// best-effort: Telegram only needs the 200 to stop redelivering.
func (s *Server) handleTelegramWebhook(c *gin.Context) {
	var update models.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}

	if s.updates != nil {
		s.updates.HandleUpdate(c.Request.Context(), &update)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
