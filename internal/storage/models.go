package storage

// Status is the payment status of a user record.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// User represents one payment attempt. OrderID is assigned at creation
// and never changes; Status only moves away from pending via a verified
// gateway webhook.
type User struct {
	OrderID   string  `json:"orderId"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Telegram  string  `json:"telegram"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    Status  `json:"status"`
	PaidAt    string  `json:"paidAt,omitempty"`
	CreatedAt string  `json:"createdAt"`
}
