package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"not null"`
	VendorID      *uint           `json:"vendor_id" gorm:"index"`
	ListPrice     decimal.Decimal `json:"list_price" gorm:"type:decimal(18,2);not null"`
	CurrencyCode  string          `json:"currency_code" gorm:"size:3;not null"`
	ApprovalState string          `json:"approval_state" gorm:"default:'draft'"` // draft, pending, approved, rejected
	// Per-product commission rate. Zero means "use the vendor's default rate".
	CommissionRate decimal.Decimal `json:"commission_rate" gorm:"type:decimal(5,2);default:0"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

type ProductApprovalState string

const (
	ProductDraft    ProductApprovalState = "draft"
	ProductPending  ProductApprovalState = "pending"
	ProductApproved ProductApprovalState = "approved"
	ProductRejected ProductApprovalState = "rejected"
)
