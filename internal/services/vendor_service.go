package services

import (
	"fmt"
	"log"

	"marketplace_platform/internal/models"
	"marketplace_platform/internal/repository"

	"github.com/shopspring/decimal"
)

// BalanceCache is a read-side cache for vendor balances. Cached values are
// advisory; payout validation always recomputes from the ledger inside its
// own transaction.
type BalanceCache interface {
	GetVendorBalance(vendorID uint) (decimal.Decimal, bool)
	SetVendorBalance(vendorID uint, balance decimal.Decimal) error
	InvalidateVendorBalance(vendorID uint) error
}

type VendorService interface {
	Register(partnerID uint, shopName, shopURL, phone, email, description string) (*models.Vendor, error)
	GetByID(id uint) (*models.Vendor, error)
	GetByPartnerID(partnerID uint) (*models.Vendor, error)
	GetPendingRequests() ([]models.Vendor, error)
	Approve(id uint) (*models.Vendor, error)
	Reject(id uint, reason string) (*models.Vendor, error)
	Suspend(id uint, reason string) (*models.Vendor, error)
	// Balance is the vendor's withdrawable amount: the sum of vendor amounts
	// over confirmed commission records. Settled (paid) records have left
	// that sum, so no separate payout deduction is needed.
	Balance(vendorID uint) (decimal.Decimal, error)
	GetProducts(vendorID uint) ([]models.Product, error)
	// AddProduct lists a product, optionally owned by a vendor. A nil
	// vendorID is a platform-direct product that never accrues commissions.
	AddProduct(vendorID *uint, name string, listPrice, commissionRate decimal.Decimal) (*models.Product, error)
}

type vendorService struct {
	vendorRepo     repository.VendorRepository
	commissionRepo repository.CommissionRepository
	productRepo    repository.ProductRepository
	userRepo       repository.UserRepository
	auditRepo      repository.AuditRepository
	cache          BalanceCache
	defaultRate    decimal.Decimal
	currency       string
}

func NewVendorService(
	vendorRepo repository.VendorRepository,
	commissionRepo repository.CommissionRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	cache BalanceCache,
	defaultRate decimal.Decimal,
	currency string,
) VendorService {
	return &vendorService{
		vendorRepo:     vendorRepo,
		commissionRepo: commissionRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		cache:          cache,
		defaultRate:    defaultRate,
		currency:       currency,
	}
}

func (s *vendorService) Register(partnerID uint, shopName, shopURL, phone, email, description string) (*models.Vendor, error) {
	if existing, err := s.vendorRepo.GetByPartnerID(partnerID); err == nil && existing != nil {
		return nil, ErrVendorExists
	}
	if existing, err := s.vendorRepo.GetByShopURL(shopURL); err == nil && existing != nil {
		return nil, ErrShopURLTaken
	}

	vendor := &models.Vendor{
		PartnerID:             partnerID,
		ShopName:              shopName,
		ShopURL:               shopURL,
		Phone:                 phone,
		Email:                 email,
		Description:           description,
		State:                 string(models.VendorNew),
		CurrencyCode:          s.currency,
		DefaultCommissionRate: s.defaultRate,
	}
	if err := s.vendorRepo.Create(vendor); err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	s.audit(vendor.ID, "registered", fmt.Sprintf("shop %q requested by partner %d", shopName, partnerID))
	return vendor, nil
}

func (s *vendorService) GetByID(id uint) (*models.Vendor, error) {
	return s.vendorRepo.GetByID(id)
}

func (s *vendorService) GetByPartnerID(partnerID uint) (*models.Vendor, error) {
	return s.vendorRepo.GetByPartnerID(partnerID)
}

func (s *vendorService) GetPendingRequests() ([]models.Vendor, error) {
	return s.vendorRepo.GetByState(string(models.VendorNew))
}

// Approve moves a vendor to active. Approving an already-active vendor is a
// no-op; a rejected or suspended vendor needs an explicit re-open, not an
// approve.
func (s *vendorService) Approve(id uint) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	switch vendor.State {
	case string(models.VendorActive):
		return vendor, nil
	case string(models.VendorNew):
		// fall through to the transition
	default:
		return nil, fmt.Errorf("%w: cannot approve vendor in state %s", ErrInvalidStateTransition, vendor.State)
	}

	vendor.State = string(models.VendorActive)
	if err := s.vendorRepo.Update(vendor); err != nil {
		return nil, err
	}

	// Flag the owning account as a vendor so the portal can route it.
	if user, err := s.userRepo.GetByID(vendor.PartnerID); err == nil {
		user.IsVendor = true
		if err := s.userRepo.Update(user); err != nil {
			log.Printf("Warning: failed to flag user %d as vendor: %v", user.ID, err)
		}
	}

	s.audit(vendor.ID, "approved", "vendor approved")
	return vendor, nil
}

func (s *vendorService) Reject(id uint, reason string) (*models.Vendor, error) {
	return s.refuse(id, string(models.VendorRejected), reason)
}

func (s *vendorService) Suspend(id uint, reason string) (*models.Vendor, error) {
	return s.refuse(id, string(models.VendorSuspended), reason)
}

func (s *vendorService) refuse(id uint, target, reason string) (*models.Vendor, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	vendor, err := s.vendorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	// new can be rejected; new and active can be suspended. Terminal states
	// stay terminal.
	allowed := vendor.State == string(models.VendorNew) ||
		(target == string(models.VendorSuspended) && vendor.State == string(models.VendorActive))
	if !allowed {
		return nil, fmt.Errorf("%w: cannot move vendor from %s to %s", ErrInvalidStateTransition, vendor.State, target)
	}

	vendor.State = target
	if err := s.vendorRepo.Update(vendor); err != nil {
		return nil, err
	}
	s.audit(vendor.ID, target, reason)
	return vendor, nil
}

func (s *vendorService) Balance(vendorID uint) (decimal.Decimal, error) {
	if s.cache != nil {
		if balance, ok := s.cache.GetVendorBalance(vendorID); ok {
			return balance, nil
		}
	}
	balance, err := s.commissionRepo.SumConfirmed(vendorID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetVendorBalance(vendorID, balance); err != nil {
			log.Printf("Warning: failed to cache balance for vendor %d: %v", vendorID, err)
		}
	}
	return balance, nil
}

func (s *vendorService) GetProducts(vendorID uint) ([]models.Product, error) {
	return s.productRepo.GetByVendorID(vendorID)
}

func (s *vendorService) AddProduct(vendorID *uint, name string, listPrice, commissionRate decimal.Decimal) (*models.Product, error) {
	approvalState := models.ProductApproved
	if vendorID != nil {
		vendor, err := s.vendorRepo.GetByID(*vendorID)
		if err != nil {
			return nil, err
		}
		if !vendor.IsApproved() {
			return nil, fmt.Errorf("%w: vendor %d is %s", ErrVendorNotApproved, vendor.ID, vendor.State)
		}
		// Vendor listings wait for moderation.
		approvalState = models.ProductPending
	}

	product := &models.Product{
		Name:           name,
		VendorID:       vendorID,
		ListPrice:      listPrice,
		CurrencyCode:   s.currency,
		ApprovalState:  string(approvalState),
		CommissionRate: commissionRate,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *vendorService) audit(vendorID uint, event, detail string) {
	entry := &models.AuditLog{
		EntityType: models.AuditEntityVendor,
		EntityID:   vendorID,
		Event:      event,
		Detail:     detail,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		log.Printf("Warning: failed to write vendor audit entry: %v", err)
	}
}
