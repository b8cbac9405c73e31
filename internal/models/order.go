package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	OrderNumber   string         `json:"order_number" gorm:"unique;not null"`
	CustomerName  string         `json:"customer_name" gorm:"not null"`
	CustomerEmail string         `json:"customer_email"`
	OrderDate     time.Time      `json:"order_date" gorm:"not null"`
	Status        string         `json:"status" gorm:"default:'draft';index"` // draft, confirmed, done, cancelled
	CurrencyCode  string         `json:"currency_code" gorm:"size:3;not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Lines []OrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDone      OrderStatus = "done"
	OrderCancelled OrderStatus = "cancelled"
)

// IsBillable reports whether the order has reached a state where vendor
// commissions may be generated for its lines.
func (o *Order) IsBillable() bool {
	return o.Status == string(OrderConfirmed) || o.Status == string(OrderDone)
}
