package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Commission is the revenue split for exactly one order line attributed to
// exactly one vendor. Amounts are computed once at creation and never
// recomputed, even if the product or vendor rate changes afterwards.
//
// Records created by commission generation have a nil ParentID and are unique
// per order line (partial unique index, see migrations). Records with a
// ParentID are the two halves of a settlement split and share the parent's
// order line.
type Commission struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Reference        string          `json:"reference" gorm:"unique;not null"`
	VendorID         uint            `json:"vendor_id" gorm:"not null;index"`
	OrderLineID      uint            `json:"order_line_id" gorm:"not null;index"`
	ParentID         *uint           `json:"parent_id" gorm:"index"`
	PayoutID         *uint           `json:"payout_id" gorm:"index"`
	SaleAmount       decimal.Decimal `json:"sale_amount" gorm:"type:decimal(18,2);not null"`
	CommissionRate   decimal.Decimal `json:"commission_rate" gorm:"type:decimal(5,2);not null"`
	CommissionAmount decimal.Decimal `json:"commission_amount" gorm:"type:decimal(18,2);not null"`
	VendorAmount     decimal.Decimal `json:"vendor_amount" gorm:"type:decimal(18,2);not null"`
	CurrencyCode     string          `json:"currency_code" gorm:"size:3;not null"`
	State            string          `json:"state" gorm:"default:'draft';index"`
	CancelReason     string          `json:"cancel_reason" gorm:"type:text"`
	ConfirmedAt      *time.Time      `json:"confirmed_at" gorm:"index"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

type CommissionState string

const (
	CommissionDraft     CommissionState = "draft"
	CommissionConfirmed CommissionState = "confirmed"
	CommissionPaid      CommissionState = "paid"
	CommissionCancelled CommissionState = "cancelled"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeSplit divides a line subtotal between the platform and the vendor at
// the given percentage rate. The platform commission is rounded half-up to the
// currency's two minor-unit digits; the vendor amount is the exact remainder,
// so commission + vendorNet always equals subtotal.
func ComputeSplit(subtotal, rate decimal.Decimal) (commission, vendorNet decimal.Decimal) {
	commission = subtotal.Mul(rate).Div(oneHundred).Round(2)
	vendorNet = subtotal.Sub(commission)
	return commission, vendorNet
}

// ResolveRate picks the commission rate for a line: an explicit override wins,
// then a non-zero per-product rate, then the vendor's default. A rate outside
// (0, 100] is treated as unset.
func ResolveRate(override *decimal.Decimal, product *Product, vendor *Vendor) (decimal.Decimal, bool) {
	candidates := make([]decimal.Decimal, 0, 3)
	if override != nil {
		candidates = append(candidates, *override)
	}
	if product != nil {
		candidates = append(candidates, product.CommissionRate)
	}
	if vendor != nil {
		candidates = append(candidates, vendor.DefaultCommissionRate)
	}
	for _, rate := range candidates {
		if rate.IsPositive() && rate.LessThanOrEqual(oneHundred) {
			return rate, true
		}
	}
	return decimal.Zero, false
}

// CanVoid reports whether the record may still be cancelled. Settled funds
// cannot be silently voided; they need a corrective payout adjustment.
func (c *Commission) CanVoid() bool {
	return c.State == string(CommissionDraft) || c.State == string(CommissionConfirmed)
}

// Split carves vendorPortion out of a confirmed record for settlement. The
// paid half carries exactly vendorPortion of the vendor amount with sale and
// commission pro-rated at the captured rate; the residual half is the exact
// remainder, so the two halves always sum to the parent. Both halves keep the
// parent's order line and confirmation time (the residual must hold its FIFO
// position).
func (c *Commission) Split(vendorPortion decimal.Decimal) (paid, residual Commission) {
	rateFraction := decimal.NewFromInt(1).Sub(c.CommissionRate.Div(oneHundred))
	paidSale := vendorPortion.Div(rateFraction).Round(2)

	paid = Commission{
		Reference:        c.Reference + "-P",
		VendorID:         c.VendorID,
		OrderLineID:      c.OrderLineID,
		ParentID:         &c.ID,
		SaleAmount:       paidSale,
		CommissionRate:   c.CommissionRate,
		CommissionAmount: paidSale.Sub(vendorPortion),
		VendorAmount:     vendorPortion,
		CurrencyCode:     c.CurrencyCode,
		State:            string(CommissionPaid),
		ConfirmedAt:      c.ConfirmedAt,
	}
	residual = Commission{
		Reference:        c.Reference + "-R",
		VendorID:         c.VendorID,
		OrderLineID:      c.OrderLineID,
		ParentID:         &c.ID,
		SaleAmount:       c.SaleAmount.Sub(paidSale),
		CommissionRate:   c.CommissionRate,
		CommissionAmount: c.CommissionAmount.Sub(paid.CommissionAmount),
		VendorAmount:     c.VendorAmount.Sub(vendorPortion),
		CurrencyCode:     c.CurrencyCode,
		State:            string(CommissionConfirmed),
		ConfirmedAt:      c.ConfirmedAt,
	}
	return paid, residual
}
