package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderLine struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OrderID      uint            `json:"order_id" gorm:"not null;index"`
	ProductID    uint            `json:"product_id" gorm:"not null;index"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	UnitPrice    decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,2);not null"`
	Subtotal     decimal.Decimal `json:"subtotal" gorm:"type:decimal(18,2);not null"`
	CurrencyCode string          `json:"currency_code" gorm:"size:3;not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"deleted_at" gorm:"index"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// VendorID resolves the vendor attribution of this line through its product.
// Lines whose product is not owned by a vendor are platform-direct sales.
func (l *OrderLine) VendorID() *uint {
	if l.Product == nil {
		return nil
	}
	return l.Product.VendorID
}
