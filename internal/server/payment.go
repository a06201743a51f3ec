package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DCWS-dev/ai-landing/internal/prodamus"
	"github.com/DCWS-dev/ai-landing/internal/storage"
	"github.com/DCWS-dev/ai-landing/internal/wayforpay"
)

type plan struct {
	amount  float64
	product string
}

// Prices are fixed per currency at order-creation time. Unknown currency
// codes fall back to the default entry.
var plans = map[string]plan{
	"RUB": {amount: 1990, product: "7-дневный марафон «Бизнес с ИИ»"},
	"UAH": {amount: 890, product: "7-денний марафон «Бізнес з ШІ»"},
}

const defaultCurrency = "RUB"

type createPaymentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Telegram string `json:"telegram"`
	Currency string `json:"currency"`
}

// handleCreatePayment validates the lead form, persists a pending record
// and returns a gateway-specific signed payload: a form post for WayForPay
// (UAH), a ready payment URL for Prodamus (everything else).
func (s *Server) handleCreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email, and phone are required"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email, and phone are required"})
		return
	}
	if req.Currency == "" {
		req.Currency = defaultCurrency
	}

	entry, ok := plans[req.Currency]
	if !ok {
		entry = plans[defaultCurrency]
	}

	orderID := newOrderID()
	user := &storage.User{
		OrderID:   orderID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Telegram:  req.Telegram,
		Amount:    entry.amount,
		Currency:  req.Currency,
		Status:    storage.StatusPending,
		CreatedAt: storage.NowISO(),
	}
	if err := s.store.SaveUser(c.Request.Context(), user); err != nil {
		s.log.Error("save user", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	s.log.Info("order created",
		zap.String("order_id", orderID),
		zap.String("currency", req.Currency),
		zap.Float64("amount", entry.amount),
	)

	if req.Currency == "UAH" {
		data := s.wayforpay.CheckoutRequest(orderID, time.Now().Unix(),
			entry.amount, "UAH",
			[]wayforpay.Product{{Name: entry.product, Price: entry.amount, Count: 1}},
			wayforpay.Buyer{Name: req.Name, Email: req.Email, Phone: req.Phone})

		c.JSON(http.StatusOK, gin.H{
			"paymentSystem": "wayforpay",
			"url":           s.wayforpay.PayURL(),
			"data":          data,
		})
		return
	}

	if !s.prodamus.Configured() {
		s.log.Error("prodamus not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment system not configured"})
		return
	}

	paymentURL := s.prodamus.PaymentURL(prodamus.Checkout{
		OrderID:      orderID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Telegram:     req.Telegram,
		ProductName:  entry.product,
		ProductPrice: strconv.FormatFloat(entry.amount, 'f', -1, 64),
	})

	c.JSON(http.StatusOK, gin.H{
		"paymentSystem": "prodamus",
		"paymentUrl":    paymentURL,
		"orderId":       orderID,
	})
}

// newOrderID mints a practically unique order id: millisecond timestamp
// plus a random suffix. Uniqueness, not unpredictability, is the
// requirement here.
func newOrderID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("M-%d-%s", time.Now().UnixMilli(), suffix)
}
