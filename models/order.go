package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "Pending"
	OrderStatusProcessing      OrderStatus = "Processing"
	OrderStatusCompleted       OrderStatus = "Completed"
	OrderStatusCancelRequested OrderStatus = "Cancel Requested"
	OrderStatusRefundRequested OrderStatus = "Refund Requested"
	OrderStatusCancelled       OrderStatus = "Cancelled"
	OrderStatusRefunded        OrderStatus = "Refunded"
)

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	User          User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TotalPrice    float64     `gorm:"not null" json:"total_price"`
	PaymentMethod string      `json:"payment_method"`
	// PickupLocation stores the location name, not its id (see Location).
	PickupLocation string      `gorm:"index" json:"pickup_location"`
	Status         OrderStatus `gorm:"default:Pending" json:"status"`
	TableNumber    string      `json:"table_number"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderItem freezes the unit price at order-creation time; later catalog price
// changes never affect existing orders. Invariant: the parent order's
// total_price equals the sum of price*quantity over its items after every
// committed mutation.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Order     Order     `gorm:"foreignKey:OrderID" json:"-"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Request actions a manager can take on a customer-initiated cancel or refund
// request, and the status each one resolves to.
const (
	ActionApproveCancel = "approve_cancel"
	ActionRejectCancel  = "reject_cancel"
	ActionApproveRefund = "approve_refund"
	ActionRejectRefund  = "reject_refund"
)

var requestResolutions = map[string]OrderStatus{
	ActionApproveCancel: OrderStatusCancelled,
	ActionRejectCancel:  OrderStatusPending,
	ActionApproveRefund: OrderStatusRefunded,
	ActionRejectRefund:  OrderStatusCompleted,
}

// ResolveRequestAction maps an approval action to the resulting status. The
// boolean is false for unknown actions; callers must reject those instead of
// writing an empty status.
func ResolveRequestAction(action string) (OrderStatus, bool) {
	status, ok := requestResolutions[action]
	return status, ok
}

// CanRequestCancel reports whether a customer may ask to cancel: only orders
// still sitting at Pending qualify.
func CanRequestCancel(status OrderStatus) bool {
	return status == OrderStatusPending
}

// CanRequestRefund reports whether a customer may ask for a refund: only
// Completed orders qualify.
func CanRequestRefund(status OrderStatus) bool {
	return status == OrderStatusCompleted
}

// IsRequestStatus reports whether the status is awaiting manager action.
// Order lists sort these first so the approval queue stays on top.
func IsRequestStatus(status OrderStatus) bool {
	return status == OrderStatusCancelRequested || status == OrderStatusRefundRequested
}
