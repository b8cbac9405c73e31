package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Payout struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Reference        string          `json:"reference" gorm:"unique;not null"`
	VendorID         uint            `json:"vendor_id" gorm:"not null;index"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
	CurrencyCode     string          `json:"currency_code" gorm:"size:3;not null"`
	RequestDate      time.Time       `json:"request_date"`
	PaymentDate      *time.Time      `json:"payment_date"`
	PaymentReference string          `json:"payment_reference"`
	State            string          `json:"state" gorm:"default:'draft';index"`
	RejectReason     string          `json:"reject_reason" gorm:"type:text"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

type PayoutState string

const (
	PayoutDraft     PayoutState = "draft"
	PayoutRequested PayoutState = "requested"
	PayoutValidated PayoutState = "validated"
	PayoutPaid      PayoutState = "paid"
	PayoutRejected  PayoutState = "rejected"
)

// payoutTransitions lists the allowed state machine edges.
// draft -> requested -> validated -> paid, with rejection possible from
// requested and validated. paid and rejected are terminal.
var payoutTransitions = map[PayoutState][]PayoutState{
	PayoutDraft:     {PayoutRequested},
	PayoutRequested: {PayoutValidated, PayoutRejected},
	PayoutValidated: {PayoutPaid, PayoutRejected},
}

// CanTransition reports whether the payout may move to the target state.
func (p *Payout) CanTransition(target PayoutState) bool {
	for _, next := range payoutTransitions[PayoutState(p.State)] {
		if next == target {
			return true
		}
	}
	return false
}

// ErrSettlementShortfall is returned when the confirmed ledger no longer
// covers the payout amount (e.g. a commission was voided between the request
// and the payment).
var ErrSettlementShortfall = errors.New("confirmed commissions do not cover payout amount")

// SettlementSplit marks the record that straddles the payout boundary and the
// vendor-amount portion of it being settled.
type SettlementSplit struct {
	Commission    Commission
	VendorPortion decimal.Decimal
}

// SettlementPlan is the deterministic allocation of a paid payout to
// commission records: whole records oldest-confirmed-first, plus at most one
// boundary split.
type SettlementPlan struct {
	Full  []Commission
	Split *SettlementSplit
}

// PlanSettlement allocates amount across confirmed records. fifo must already
// be ordered oldest confirmation first (id as tiebreak); the plan consumes
// whole records while they fit and splits the first record that does not.
func PlanSettlement(fifo []Commission, amount decimal.Decimal) (*SettlementPlan, error) {
	plan := &SettlementPlan{}
	remaining := amount
	for _, record := range fifo {
		if remaining.IsZero() {
			break
		}
		if record.VendorAmount.LessThanOrEqual(remaining) {
			plan.Full = append(plan.Full, record)
			remaining = remaining.Sub(record.VendorAmount)
			continue
		}
		plan.Split = &SettlementSplit{Commission: record, VendorPortion: remaining}
		remaining = decimal.Zero
		break
	}
	if !remaining.IsZero() {
		return nil, ErrSettlementShortfall
	}
	return plan, nil
}
