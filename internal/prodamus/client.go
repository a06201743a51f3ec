package prodamus

import (
	"fmt"
	"net/url"
)

const paidContent = "Спасибо за покупку! Переходите в Telegram-бота для получения доступа к марафону."

// Checkout holds the buyer and product fields for one payment link.
type Checkout struct {
	OrderID      string
	Name         string
	Email        string
	Phone        string
	Telegram     string
	ProductName  string
	ProductPrice string
}

// Client builds signed Prodamus payment links and verifies webhook
// signatures for one merchant form.
type Client struct {
	formURL   string
	secretKey string
	siteURL   string
}

func NewClient(formURL, secretKey, siteURL string) *Client {
	return &Client{formURL: formURL, secretKey: secretKey, siteURL: siteURL}
}

// Configured reports whether the merchant credentials are present. Order
// creation must fail with a server error when they are not.
func (c *Client) Configured() bool {
	return c.formURL != "" && c.secretKey != ""
}

// Verify checks a webhook payload against the signature from the Sign header.
func (c *Client) Verify(data map[string]any, signature string) bool {
	return Verify(data, c.secretKey, signature)
}

// PaymentURL returns the ready-to-navigate payment form URL with the
// signature appended as a regular query field.
func (c *Client) PaymentURL(co Checkout) string {
	extra := "Имя: " + co.Name
	if co.Telegram != "" {
		extra += ", Telegram: " + co.Telegram
	}

	data := map[string]any{
		"order_id":       co.OrderID,
		"customer_phone": co.Phone,
		"customer_email": co.Email,
		"customer_extra": extra,
		"products": []any{
			map[string]any{
				"name":     co.ProductName,
				"price":    co.ProductPrice,
				"quantity": "1",
			},
		},
		"do":              "pay",
		"urlReturn":       c.siteURL,
		"urlSuccess":      c.siteURL + "/payment-success?order_id=" + co.OrderID,
		"urlNotification": c.siteURL + "/api/webhook/prodamus",
		"paid_content":    paidContent,
	}
	data["signature"] = Sign(data, c.secretKey)

	params := url.Values{}
	for key, value := range data {
		if key == "products" {
			for i, item := range value.([]any) {
				product := item.(map[string]any)
				for pKey, pVal := range product {
					params.Set(fmt.Sprintf("products[%d][%s]", i, pKey), stringify(pVal))
				}
			}
			continue
		}
		params.Set(key, stringify(value))
	}

	return c.formURL + "?" + params.Encode()
}
