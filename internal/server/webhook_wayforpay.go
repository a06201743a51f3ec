package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DCWS-dev/ai-landing/internal/storage"
	"github.com/DCWS-dev/ai-landing/internal/wayforpay"
)

// handleWayForPayWebhook processes a WayForPay service-URL callback. The
// signature rides inside the body as merchantSignature; the response must
// be a signed "accept" acknowledgment or the gateway keeps retrying.
func (s *Server) handleWayForPayWebhook(c *gin.Context) {
	var cb wayforpay.Callback
	if err := c.ShouldBindJSON(&cb); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty body"})
		return
	}

	if cb.OrderReference == "" || cb.MerchantSignature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if !s.wayforpay.VerifyCallback(cb) {
		s.log.Warn("wayforpay signature mismatch", zap.String("order_reference", cb.OrderReference))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	ctx := c.Request.Context()
	if cb.TransactionStatus == "Approved" {
		user, err := s.store.UpdateStatus(ctx, cb.OrderReference, storage.StatusPaid)
		if err != nil && err != storage.ErrNotFound {
			s.log.Error("update status", zap.String("order_reference", cb.OrderReference), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return
		}
		if user != nil {
			s.notifier.PaymentReceived(ctx, user, "WayForPay", cb.CardPan)
		}
	} else {
		// Declined, Expired and every other verified status collapse to failed
		if _, err := s.store.UpdateStatus(ctx, cb.OrderReference, storage.StatusFailed); err != nil && err != storage.ErrNotFound {
			s.log.Error("update status", zap.String("order_reference", cb.OrderReference), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return
		}
		s.log.Info("wayforpay payment not approved",
			zap.String("order_reference", cb.OrderReference),
			zap.String("transaction_status", cb.TransactionStatus),
			zap.Any("reason_code", cb.ReasonCode),
		)
	}

	c.JSON(http.StatusOK, s.wayforpay.BuildAck(cb.OrderReference, time.Now().Unix()))
}
