package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Vendor struct {
	ID                    uint            `json:"id" gorm:"primaryKey"`
	PartnerID             uint            `json:"partner_id" gorm:"uniqueIndex;not null"`
	ShopName              string          `json:"shop_name" gorm:"not null"`
	ShopURL               string          `json:"shop_url" gorm:"uniqueIndex;not null"`
	Phone                 string          `json:"phone"`
	Email                 string          `json:"email"`
	Description           string          `json:"description" gorm:"type:text"`
	State                 string          `json:"state" gorm:"default:'new';index"`
	CurrencyCode          string          `json:"currency_code" gorm:"size:3;not null"`
	DefaultCommissionRate decimal.Decimal `json:"default_commission_rate" gorm:"type:decimal(5,2);not null"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	DeletedAt             gorm.DeletedAt  `json:"deleted_at" gorm:"index"`

	// Derived from the commission ledger on read. Never persisted: the ledger
	// is the only source of truth for money owed to a vendor.
	Balance decimal.Decimal `json:"balance" gorm:"-"`
}

type VendorState string

const (
	VendorNew       VendorState = "new"
	VendorActive    VendorState = "active"
	VendorRejected  VendorState = "rejected"
	VendorSuspended VendorState = "suspended"
)

// IsApproved reports whether the vendor may sell and accrue commissions.
func (v *Vendor) IsApproved() bool {
	return v.State == string(VendorActive)
}
