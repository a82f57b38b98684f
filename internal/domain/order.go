package domain

// Order is what the CMS receives on checkout.
type Order struct {
	ClientName   string  `json:"clientName"`
	ClientPhone  string  `json:"clientPhone"`
	Total        float64 `json:"total"`
	OrderDetails string  `json:"orderDetails"`
}

// NewOrder packages a cart for submission.
func NewOrder(name, phone string, cart *Cart) Order {
	return Order{
		ClientName:   name,
		ClientPhone:  phone,
		Total:        cart.Total(),
		OrderDetails: cart.Details(),
	}
}

const (
	OrderSent   = "SENT"
	OrderFailed = "FAILED"
)

// JournalEntry is the local record of one submission attempt.
type JournalEntry struct {
	ID           string  `db:"id" json:"id"`
	SessionID    string  `db:"session_id" json:"-"`
	ClientName   string  `db:"client_name" json:"clientName"`
	PhoneDigest  string  `db:"phone_digest" json:"-"`
	Total        float64 `db:"total" json:"total"`
	OrderDetails string  `db:"order_details" json:"orderDetails"`
	Status       string  `db:"status" json:"status"`
	Err          string  `db:"err" json:"error,omitempty"`
	CreatedAt    string  `db:"created_at" json:"createdAt"`
}
