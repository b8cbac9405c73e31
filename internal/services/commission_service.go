package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"marketplace_platform/internal/models"
	"marketplace_platform/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CommissionService interface {
	// RecordCommission computes and persists the revenue split for one
	// vendor-attributed order line. It is idempotent: if a record already
	// exists for the line it is returned unchanged and created is false.
	RecordCommission(line *models.OrderLine, vendor *models.Vendor, rateOverride *decimal.Decimal) (commission *models.Commission, created bool, err error)

	// VoidCommission cancels a draft or confirmed record. Paid records are
	// settled funds and cannot be voided.
	VoidCommission(id uint, reason string) (*models.Commission, error)

	GetByID(id uint) (*models.Commission, error)
	GetByVendor(vendorID uint) ([]models.Commission, error)
}

type commissionService struct {
	commissionRepo repository.CommissionRepository
	auditRepo      repository.AuditRepository
	cache          BalanceCache
}

func NewCommissionService(
	commissionRepo repository.CommissionRepository,
	auditRepo repository.AuditRepository,
	cache BalanceCache,
) CommissionService {
	return &commissionService{
		commissionRepo: commissionRepo,
		auditRepo:      auditRepo,
		cache:          cache,
	}
}

func (s *commissionService) RecordCommission(line *models.OrderLine, vendor *models.Vendor, rateOverride *decimal.Decimal) (*models.Commission, bool, error) {
	if line == nil || vendor == nil {
		return nil, false, ErrNoVendorOnLine
	}
	if !vendor.IsApproved() {
		return nil, false, fmt.Errorf("%w: vendor %d is %s", ErrVendorNotApproved, vendor.ID, vendor.State)
	}
	if !line.Subtotal.IsPositive() {
		return nil, false, ErrZeroSubtotal
	}

	// Idempotency guard: one generation-created record per order line. The
	// partial unique index in the database backstops this check against
	// concurrent confirmation retries.
	if existing, err := s.commissionRepo.GetRootByOrderLineID(line.ID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to check for existing commission: %w", err)
	}

	rate, ok := models.ResolveRate(rateOverride, line.Product, vendor)
	if !ok {
		return nil, false, fmt.Errorf("%w: line %d", ErrNoCommissionRate, line.ID)
	}
	commissionAmount, vendorAmount := models.ComputeSplit(line.Subtotal, rate)

	now := time.Now()
	record := &models.Commission{
		Reference:        newReference("COMM"),
		VendorID:         vendor.ID,
		OrderLineID:      line.ID,
		SaleAmount:       line.Subtotal,
		CommissionRate:   rate,
		CommissionAmount: commissionAmount,
		VendorAmount:     vendorAmount,
		CurrencyCode:     line.CurrencyCode,
		// Order confirmation already establishes billability, so the record
		// enters the ledger confirmed rather than draft.
		State:       string(models.CommissionConfirmed),
		ConfirmedAt: &now,
	}

	if err := s.commissionRepo.Create(record); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Lost the race to a concurrent retry; its record wins.
			existing, lookupErr := s.commissionRepo.GetRootByOrderLineID(line.ID)
			if lookupErr != nil {
				return nil, false, fmt.Errorf("duplicate commission for line %d but lookup failed: %w", line.ID, lookupErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create commission: %w", err)
	}

	s.invalidateBalance(vendor.ID)
	return record, true, nil
}

func (s *commissionService) VoidCommission(id uint, reason string) (*models.Commission, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	record, err := s.commissionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !record.CanVoid() {
		return nil, fmt.Errorf("%w: cannot void commission in state %s", ErrInvalidStateTransition, record.State)
	}

	record.State = string(models.CommissionCancelled)
	record.CancelReason = reason
	if err := s.commissionRepo.Update(record); err != nil {
		return nil, err
	}

	s.invalidateBalance(record.VendorID)
	entry := &models.AuditLog{
		EntityType: models.AuditEntityCommission,
		EntityID:   record.ID,
		Event:      "voided",
		Detail:     reason,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		log.Printf("Warning: failed to write commission audit entry: %v", err)
	}
	return record, nil
}

func (s *commissionService) GetByID(id uint) (*models.Commission, error) {
	return s.commissionRepo.GetByID(id)
}

func (s *commissionService) GetByVendor(vendorID uint) ([]models.Commission, error) {
	return s.commissionRepo.GetByVendorID(vendorID)
}

func (s *commissionService) invalidateBalance(vendorID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateVendorBalance(vendorID); err != nil {
		log.Printf("Warning: failed to invalidate balance cache for vendor %d: %v", vendorID, err)
	}
}

// newReference builds a short human-readable record reference, e.g.
// COMM-9F1C03A2.
func newReference(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + id[:8]
}
