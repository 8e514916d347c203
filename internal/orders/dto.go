package orders

import "time"

// OrderView is the polling DTO for live order status. Payment fields are nil
// when no payment row exists yet.
type OrderView struct {
	OrderID       uint      `json:"order_id"`
	Status        string    `json:"status"`
	Price         int       `json:"price"`
	OrderTime     time.Time `json:"order_time"`
	PaymentStatus *string   `json:"payment_status"`
	PaymentMode   *string   `json:"payment_mode"`
}

// OrderLine is one snack line inside an order detail.
type OrderLine struct {
	SnackID  uint   `json:"snack_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderDetail is the full view of a single order.
type OrderDetail struct {
	OrderView
	CustomerID *uint       `json:"customer_id"`
	Items      []OrderLine `json:"items"`
}

// PaymentView is the owner-facing listing of a payment row.
type PaymentView struct {
	PaymentID   uint      `json:"payment_id"`
	OrderID     uint      `json:"order_id"`
	Mode        string    `json:"mode"`
	Status      string    `json:"status"`
	PaymentTime time.Time `json:"payment_time"`
}
