package wayforpay

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// WayForPay signs semicolon-joined field strings with HMAC-MD5. Three
// orderings exist: checkout (order creation), callback (webhook
// verification) and ack (webhook acknowledgment). Embedded semicolons are
// not escaped; that is how the gateway defines the format.

// SignCheckout signs the order-creation request: scalar fields first, then
// the product name/count/price arrays concatenated in sequence.
func SignCheckout(merchantAccount, domain, orderReference string, orderDate int64,
	amount float64, currency string, names []string, counts []int, prices []float64,
	secretKey string) string {

	fields := []string{
		merchantAccount,
		domain,
		orderReference,
		strconv.FormatInt(orderDate, 10),
		formatAmount(amount),
		currency,
	}
	fields = append(fields, names...)
	for _, c := range counts {
		fields = append(fields, strconv.Itoa(c))
	}
	for _, p := range prices {
		fields = append(fields, formatAmount(p))
	}

	return signFields(fields, secretKey)
}

// Callback is the webhook payload WayForPay posts to the service URL.
// ReasonCode is untyped because the gateway has sent it both as a number
// and as a string.
type Callback struct {
	MerchantAccount   string  `json:"merchantAccount"`
	OrderReference    string  `json:"orderReference"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	AuthCode          string  `json:"authCode"`
	CardPan           string  `json:"cardPan"`
	TransactionStatus string  `json:"transactionStatus"`
	ReasonCode        any     `json:"reasonCode"`
	MerchantSignature string  `json:"merchantSignature"`
}

// SignCallback signs the eight webhook fields in their fixed order.
func SignCallback(cb Callback, secretKey string) string {
	fields := []string{
		cb.MerchantAccount,
		cb.OrderReference,
		formatAmount(cb.Amount),
		cb.Currency,
		cb.AuthCode,
		cb.CardPan,
		cb.TransactionStatus,
		stringify(cb.ReasonCode),
	}
	return signFields(fields, secretKey)
}

// SignAck signs the acknowledgment triple: order reference, the literal
// status "accept" and a unix-seconds timestamp.
func SignAck(orderReference string, t int64, secretKey string) string {
	return signFields([]string{orderReference, "accept", strconv.FormatInt(t, 10)}, secretKey)
}

// signString exists separately from signFields so tests can pin the exact
// pre-hash bytes.
func signString(fields []string) string {
	return strings.Join(fields, ";")
}

func signFields(fields []string, secretKey string) string {
	mac := hmac.New(md5.New, []byte(secretKey))
	mac.Write([]byte(signString(fields)))
	return hex.EncodeToString(mac.Sum(nil))
}

// formatAmount renders an amount the way JS String() renders a JSON number:
// shortest decimal, no trailing zeros ("890", "890.5").
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return formatAmount(val)
	default:
		return fmt.Sprint(val)
	}
}
