package services

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"marketplace_platform/internal/models"
	"marketplace_platform/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// txRunner is the slice of *gorm.DB the payout service needs: running a
// function inside a database transaction.
type txRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

type PayoutService interface {
	// RequestPayout validates the amount against the vendor's available
	// balance (confirmed ledger minus outstanding payout requests) and
	// creates the payout in the requested state. Validation and creation
	// run under a vendor row lock so two concurrent requests cannot both
	// spend the same balance.
	RequestPayout(vendorID uint, amount decimal.Decimal) (*models.Payout, error)

	Validate(id uint) (*models.Payout, error)
	Reject(id uint, reason string) (*models.Payout, error)

	// MarkPaid settles the payout against the ledger: confirmed commission
	// records are consumed oldest-confirmed-first, splitting the boundary
	// record if the amount does not align with record boundaries, so the
	// vendor's balance drops by exactly the payout amount.
	MarkPaid(id uint, paymentReference string) (*models.Payout, error)

	GetByID(id uint) (*models.Payout, error)
	GetByVendor(vendorID uint) ([]models.Payout, error)
}

type payoutService struct {
	db             txRunner
	vendorRepo     repository.VendorRepository
	commissionRepo repository.CommissionRepository
	payoutRepo     repository.PayoutRepository
	auditRepo      repository.AuditRepository
	cache          BalanceCache
}

func NewPayoutService(
	db *gorm.DB,
	vendorRepo repository.VendorRepository,
	commissionRepo repository.CommissionRepository,
	payoutRepo repository.PayoutRepository,
	auditRepo repository.AuditRepository,
	cache BalanceCache,
) PayoutService {
	return &payoutService{
		db:             db,
		vendorRepo:     vendorRepo,
		commissionRepo: commissionRepo,
		payoutRepo:     payoutRepo,
		auditRepo:      auditRepo,
		cache:          cache,
	}
}

func (s *payoutService) RequestPayout(vendorID uint, amount decimal.Decimal) (*models.Payout, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var payout *models.Payout
	err := s.db.Transaction(func(tx *gorm.DB) error {
		vendor, err := s.vendorRepo.WithTx(tx).LockByID(vendorID)
		if err != nil {
			return err
		}
		if !vendor.IsApproved() {
			return fmt.Errorf("%w: vendor %d is %s", ErrVendorNotApproved, vendor.ID, vendor.State)
		}

		balance, err := s.commissionRepo.WithTx(tx).SumConfirmed(vendorID)
		if err != nil {
			return fmt.Errorf("failed to compute balance: %w", err)
		}
		outstanding, err := s.payoutRepo.WithTx(tx).SumOutstanding(vendorID)
		if err != nil {
			return fmt.Errorf("failed to sum outstanding payouts: %w", err)
		}
		available := balance.Sub(outstanding)
		if amount.GreaterThan(available) {
			return fmt.Errorf("%w: requested %s, available %s", ErrInsufficientBalance, amount, available)
		}

		payout = &models.Payout{
			Reference:    newReference("PAYOUT"),
			VendorID:     vendorID,
			Amount:       amount,
			CurrencyCode: vendor.CurrencyCode,
			RequestDate:  time.Now(),
			State:        string(models.PayoutRequested),
		}
		if err := s.payoutRepo.WithTx(tx).Create(payout); err != nil {
			return fmt.Errorf("failed to create payout: %w", err)
		}
		s.auditTx(tx, payout.ID, "requested", fmt.Sprintf("vendor %d requested %s %s", vendorID, amount, vendor.CurrencyCode))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *payoutService) Validate(id uint) (*models.Payout, error) {
	return s.transition(id, models.PayoutValidated, "")
}

func (s *payoutService) Reject(id uint, reason string) (*models.Payout, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.transition(id, models.PayoutRejected, reason)
}

func (s *payoutService) transition(id uint, target models.PayoutState, reason string) (*models.Payout, error) {
	payout, err := s.payoutRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !payout.CanTransition(target) {
		return nil, fmt.Errorf("%w: payout %s cannot move from %s to %s",
			ErrInvalidStateTransition, payout.Reference, payout.State, target)
	}

	payout.State = string(target)
	payout.RejectReason = reason
	if err := s.payoutRepo.Update(payout); err != nil {
		return nil, err
	}
	s.audit(payout.ID, string(target), reason)
	return payout, nil
}

func (s *payoutService) MarkPaid(id uint, paymentReference string) (*models.Payout, error) {
	var payout *models.Payout
	err := s.db.Transaction(func(tx *gorm.DB) error {
		payoutRepo := s.payoutRepo.WithTx(tx)
		commissionRepo := s.commissionRepo.WithTx(tx)

		var err error
		payout, err = payoutRepo.GetByID(id)
		if err != nil {
			return err
		}
		if !payout.CanTransition(models.PayoutPaid) {
			return fmt.Errorf("%w: payout %s cannot be paid from state %s",
				ErrInvalidStateTransition, payout.Reference, payout.State)
		}

		// All settlement paths lock the vendor row, serializing against
		// concurrent payout requests and other settlements.
		if _, err := s.vendorRepo.WithTx(tx).LockByID(payout.VendorID); err != nil {
			return err
		}

		fifo, err := commissionRepo.GetConfirmedFIFO(payout.VendorID)
		if err != nil {
			return fmt.Errorf("failed to load confirmed commissions: %w", err)
		}
		plan, err := models.PlanSettlement(fifo, payout.Amount)
		if err != nil {
			return err
		}

		for i := range plan.Full {
			record := plan.Full[i]
			record.State = string(models.CommissionPaid)
			record.PayoutID = &payout.ID
			if err := commissionRepo.Update(&record); err != nil {
				return fmt.Errorf("failed to settle commission %s: %w", record.Reference, err)
			}
		}
		if plan.Split != nil {
			parent := plan.Split.Commission
			paidHalf, residual := parent.Split(plan.Split.VendorPortion)
			paidHalf.PayoutID = &payout.ID

			parent.State = string(models.CommissionCancelled)
			parent.CancelReason = "superseded by settlement split"
			if err := commissionRepo.Update(&parent); err != nil {
				return fmt.Errorf("failed to retire split parent %s: %w", parent.Reference, err)
			}
			if err := commissionRepo.Create(&paidHalf); err != nil {
				return fmt.Errorf("failed to create paid split of %s: %w", parent.Reference, err)
			}
			if err := commissionRepo.Create(&residual); err != nil {
				return fmt.Errorf("failed to create residual split of %s: %w", parent.Reference, err)
			}
		}

		now := time.Now()
		payout.State = string(models.PayoutPaid)
		payout.PaymentDate = &now
		payout.PaymentReference = paymentReference
		if err := payoutRepo.Update(payout); err != nil {
			return err
		}
		s.auditTx(tx, payout.ID, "paid", fmt.Sprintf("settled %d full records, split=%v, ref=%s",
			len(plan.Full), plan.Split != nil, paymentReference))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateVendorBalance(payout.VendorID); err != nil {
			log.Printf("Warning: failed to invalidate balance cache for vendor %d: %v", payout.VendorID, err)
		}
	}
	return payout, nil
}

func (s *payoutService) GetByID(id uint) (*models.Payout, error) {
	return s.payoutRepo.GetByID(id)
}

func (s *payoutService) GetByVendor(vendorID uint) ([]models.Payout, error) {
	return s.payoutRepo.GetByVendorID(vendorID)
}

func (s *payoutService) audit(payoutID uint, event, detail string) {
	entry := &models.AuditLog{
		EntityType: models.AuditEntityPayout,
		EntityID:   payoutID,
		Event:      event,
		Detail:     detail,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		log.Printf("Warning: failed to write payout audit entry: %v", err)
	}
}

func (s *payoutService) auditTx(tx *gorm.DB, payoutID uint, event, detail string) {
	entry := &models.AuditLog{
		EntityType: models.AuditEntityPayout,
		EntityID:   payoutID,
		Event:      event,
		Detail:     detail,
	}
	if err := s.auditRepo.WithTx(tx).Create(entry); err != nil {
		log.Printf("Warning: failed to write payout audit entry: %v", err)
	}
}
