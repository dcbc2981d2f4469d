package model

import "time"

// Order statuses offered by the dashboard. The API stores any string.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

var OrderStatuses = []string{OrderPending, OrderProcessing, OrderShipped, OrderCompleted, OrderCancelled}

type Order struct {
	BaseModel
	CustomerID      string     `gorm:"type:varchar(100)" json:"customer_id"`
	OrderDate       *time.Time `gorm:"type:date" json:"order_date,omitempty"`
	TotalAmount     float64    `gorm:"type:numeric(12,2)" json:"total_amount" validate:"gte=0"`
	Status          string     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ShippingAddress string     `gorm:"type:text" json:"shipping_address"`
	PaymentMethod   string     `gorm:"type:varchar(50)" json:"payment_method"`
	CreatedAt       time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
