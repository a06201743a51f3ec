package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DCWS-dev/ai-landing/internal/storage"
)

// handleProdamusWebhook processes a Prodamus payment notification. The
// signature arrives in the Sign header, computed over the whole JSON body.
// The gateway expects a literal "success" text on acceptance; errors are
// plain text too. Diagnostics are distinct per rejection but never say
// which byte of a signature was wrong.
func (s *Server) handleProdamusWebhook(c *gin.Context) {
	if !s.prodamus.Configured() {
		c.String(http.StatusInternalServerError, "Server misconfigured")
		return
	}

	signature := c.GetHeader("Sign")
	if signature == "" {
		c.String(http.StatusBadRequest, "error: signature not found")
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil || len(body) == 0 {
		c.String(http.StatusBadRequest, "error: empty body")
		return
	}

	if !s.prodamus.Verify(body, signature) {
		s.log.Warn("prodamus signature mismatch")
		c.String(http.StatusBadRequest, "error: signature incorrect")
		return
	}

	orderID := fieldString(body, "order_num")
	if orderID == "" {
		orderID = fieldString(body, "order_id")
	}
	if orderID == "" {
		c.String(http.StatusBadRequest, "error: order_id missing")
		return
	}

	ctx := c.Request.Context()
	if fieldString(body, "payment_status") == "success" {
		user, err := s.store.UpdateStatus(ctx, orderID, storage.StatusPaid)
		if err != nil && err != storage.ErrNotFound {
			s.log.Error("update status", zap.String("order_id", orderID), zap.Error(err))
			c.String(http.StatusInternalServerError, "error: internal")
			return
		}
		if user != nil {
			s.notifier.PaymentReceived(ctx, user, "Prodamus", "")
		}
	} else {
		// unknown order ids are a silent no-op, the gateway still gets 200
		if _, err := s.store.UpdateStatus(ctx, orderID, storage.StatusFailed); err != nil && err != storage.ErrNotFound {
			s.log.Error("update status", zap.String("order_id", orderID), zap.Error(err))
			c.String(http.StatusInternalServerError, "error: internal")
			return
		}
	}

	c.String(http.StatusOK, "success")
}

// fieldString reads a webhook field that may arrive as a string or a
// number, depending on how the gateway serialized it.
func fieldString(body map[string]any, key string) string {
	v, ok := body[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
