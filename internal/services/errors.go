package services

import "errors"

var (
	// ErrNoCommissionRate means neither a per-product rate nor a vendor
	// default resolved to a usable value for a line.
	ErrNoCommissionRate = errors.New("no commission rate configured")

	// ErrInsufficientBalance means a payout request exceeds the vendor's
	// available balance at request time.
	ErrInsufficientBalance = errors.New("insufficient vendor balance")

	// ErrInvalidStateTransition means a disallowed lifecycle transition was
	// attempted (voiding a paid commission, paying a rejected payout, ...).
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrVendorNotApproved means the vendor is not in the active state.
	ErrVendorNotApproved = errors.New("vendor is not approved")

	ErrVendorExists     = errors.New("vendor profile already exists for this account")
	ErrShopURLTaken     = errors.New("shop url is already taken")
	ErrNoVendorOnLine   = errors.New("order line has no vendor attribution")
	ErrZeroSubtotal     = errors.New("order line subtotal must be positive")
	ErrReasonRequired   = errors.New("a reason is required")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrOrderNotBillable = errors.New("order is not in a billable state")
)
