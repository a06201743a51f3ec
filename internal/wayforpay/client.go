package wayforpay

import (
	"crypto/hmac"
)

// Product is one checkout line item.
type Product struct {
	Name  string
	Price float64
	Count int
}

// Buyer is the client info WayForPay shows on the hosted payment page.
// These fields ride along with the form post but are not signed.
type Buyer struct {
	Name  string
	Email string
	Phone string
}

// Client builds signed checkout requests and verifies webhook callbacks for
// one merchant account.
type Client struct {
	merchantAccount string
	secretKey       string
	domain          string
	payURL          string
	siteURL         string
}

func NewClient(merchantAccount, secretKey, domain, payURL, siteURL string) *Client {
	return &Client{
		merchantAccount: merchantAccount,
		secretKey:       secretKey,
		domain:          domain,
		payURL:          payURL,
		siteURL:         siteURL,
	}
}

// PayURL is the gateway endpoint the frontend posts the checkout form to.
func (c *Client) PayURL() string {
	return c.payURL
}

// CheckoutRequest returns the form fields for a hosted-page payment,
// including the merchant signature. The caller auto-submits them as a form
// post to PayURL.
func (c *Client) CheckoutRequest(orderReference string, orderDate int64,
	amount float64, currency string, products []Product, buyer Buyer) map[string]any {

	names := make([]string, len(products))
	counts := make([]int, len(products))
	prices := make([]float64, len(products))
	for i, p := range products {
		names[i] = p.Name
		counts[i] = p.Count
		prices[i] = p.Price
	}

	signature := SignCheckout(c.merchantAccount, c.domain, orderReference,
		orderDate, amount, currency, names, counts, prices, c.secretKey)

	return map[string]any{
		"merchantAccount":    c.merchantAccount,
		"merchantAuthType":   "SimpleSignature",
		"merchantDomainName": c.domain,
		"orderReference":     orderReference,
		"orderDate":          orderDate,
		"amount":             amount,
		"currency":           currency,
		"productName":        names,
		"productCount":       counts,
		"productPrice":       prices,
		"merchantSignature":  signature,
		"orderTimeout":       49000,
		"returnUrl":          c.siteURL + "/payment-success?order_id=" + orderReference,
		"serviceUrl":         c.siteURL + "/api/webhook/wayforpay",
		"clientFirstName":    buyer.Name,
		"clientEmail":        buyer.Email,
		"clientPhone":        buyer.Phone,
	}
}

// VerifyCallback checks the merchantSignature of a webhook payload.
func (c *Client) VerifyCallback(cb Callback) bool {
	expected := SignCallback(cb, c.secretKey)
	return hmac.Equal([]byte(expected), []byte(cb.MerchantSignature))
}

// Ack is the signed acknowledgment body the gateway expects back from the
// webhook handler.
type Ack struct {
	OrderReference string `json:"orderReference"`
	Status         string `json:"status"`
	Time           int64  `json:"time"`
	Signature      string `json:"signature"`
}

// BuildAck signs an acceptance acknowledgment for the given time.
func (c *Client) BuildAck(orderReference string, t int64) Ack {
	return Ack{
		OrderReference: orderReference,
		Status:         "accept",
		Time:           t,
		Signature:      SignAck(orderReference, t, c.secretKey),
	}
}
