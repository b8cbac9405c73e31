package services

import (
	"fmt"
	"log"
	"time"

	"marketplace_platform/internal/models"
	"marketplace_platform/internal/repository"

	"github.com/shopspring/decimal"
)

// Notifier delivers best-effort vendor alerts. Failures are logged and never
// roll back or retry commission creation.
type Notifier interface {
	SendVendorAlert(recipient, subject, body string) error
}

// GenerationResult summarizes one commission-generation pass over an order.
type GenerationResult struct {
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Platform int `json:"platform_lines"`
	Notified int `json:"vendors_notified"`
}

// BackfillResult aggregates generation passes over all billable orders.
type BackfillResult struct {
	Orders   int `json:"orders"`
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Notified int `json:"vendors_notified"`
}

type OrderService interface {
	CreateOrder(order *models.Order) error
	AddLine(orderID, productID uint, quantity int, unitPrice decimal.Decimal, description string) (*models.OrderLine, error)
	GetOrderByID(id uint) (*models.Order, error)
	GetOrderLines(orderID uint) ([]models.OrderLine, error)
	GetVendorLines(vendorID uint) ([]models.OrderLine, error)

	// ConfirmOrder transitions the order to confirmed and runs commission
	// generation. Generation failures are local to their line and never
	// fail the confirmation itself.
	ConfirmOrder(orderID uint) (*models.Order, *GenerationResult, error)

	// BackfillCommissions re-runs generation against every billable order.
	// It is guarded entirely by the ledger's own idempotency check and is
	// safe to run arbitrarily many times.
	BackfillCommissions() (*BackfillResult, error)
}

type orderService struct {
	orderRepo     repository.OrderRepository
	orderLineRepo repository.OrderLineRepository
	productRepo   repository.ProductRepository
	vendorRepo    repository.VendorRepository
	auditRepo     repository.AuditRepository
	commissionSvc CommissionService
	notifier      Notifier
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	orderLineRepo repository.OrderLineRepository,
	productRepo repository.ProductRepository,
	vendorRepo repository.VendorRepository,
	auditRepo repository.AuditRepository,
	commissionSvc CommissionService,
	notifier Notifier,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		orderLineRepo: orderLineRepo,
		productRepo:   productRepo,
		vendorRepo:    vendorRepo,
		auditRepo:     auditRepo,
		commissionSvc: commissionSvc,
		notifier:      notifier,
	}
}

func (s *orderService) CreateOrder(order *models.Order) error {
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now()
	}
	if order.Status == "" {
		order.Status = string(models.OrderDraft)
	}
	return s.orderRepo.Create(order)
}

func (s *orderService) AddLine(orderID, productID uint, quantity int, unitPrice decimal.Decimal, description string) (*models.OrderLine, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != string(models.OrderDraft) {
		return nil, fmt.Errorf("%w: cannot add lines to a %s order", ErrInvalidStateTransition, order.Status)
	}
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	line := &models.OrderLine{
		OrderID:      orderID,
		ProductID:    productID,
		Description:  description,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Subtotal:     unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CurrencyCode: order.CurrencyCode,
	}
	if err := s.orderLineRepo.Create(line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *orderService) GetOrderByID(id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

func (s *orderService) GetOrderLines(orderID uint) ([]models.OrderLine, error) {
	return s.orderLineRepo.GetByOrderID(orderID)
}

func (s *orderService) GetVendorLines(vendorID uint) ([]models.OrderLine, error) {
	return s.orderLineRepo.GetByVendorID(vendorID)
}

func (s *orderService) ConfirmOrder(orderID uint) (*models.Order, *GenerationResult, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, nil, err
	}

	switch order.Status {
	case string(models.OrderDraft):
		order.Status = string(models.OrderConfirmed)
		if err := s.orderRepo.Update(order); err != nil {
			return nil, nil, err
		}
	case string(models.OrderConfirmed), string(models.OrderDone):
		// Confirmation retry: re-run generation, the ledger guard makes it
		// a no-op for already-covered lines.
	default:
		return nil, nil, fmt.Errorf("%w: order %s is %s", ErrOrderNotBillable, order.OrderNumber, order.Status)
	}

	result := s.generateCommissions(order)
	return order, result, nil
}

func (s *orderService) BackfillCommissions() (*BackfillResult, error) {
	orders, err := s.orderRepo.GetBillable()
	if err != nil {
		return nil, fmt.Errorf("failed to list billable orders: %w", err)
	}

	backfill := &BackfillResult{Orders: len(orders)}
	for i := range orders {
		result := s.generateCommissions(&orders[i])
		backfill.Created += result.Created
		backfill.Skipped += result.Skipped
		backfill.Failed += result.Failed
		backfill.Notified += result.Notified
	}
	log.Printf("Commission backfill: %d orders, %d created, %d skipped, %d failed",
		backfill.Orders, backfill.Created, backfill.Skipped, backfill.Failed)
	return backfill, nil
}

// generateCommissions partitions the order's lines by vendor attribution and
// records one commission per vendor-attributed line. A failing line is
// reported on the order's audit trail and the pass continues; vendors that
// gained a new record are notified once each.
func (s *orderService) generateCommissions(order *models.Order) *GenerationResult {
	result := &GenerationResult{}

	lines, err := s.orderLineRepo.GetByOrderID(order.ID)
	if err != nil {
		s.auditFailure(order.ID, fmt.Sprintf("failed to load lines: %v", err))
		result.Failed++
		return result
	}

	notify := make(map[uint]*models.Vendor)
	for i := range lines {
		line := &lines[i]
		vendorID := line.VendorID()
		if vendorID == nil {
			// Platform-direct sale, no revenue split.
			result.Platform++
			continue
		}

		vendor, err := s.vendorRepo.GetByID(*vendorID)
		if err != nil {
			s.auditFailure(order.ID, fmt.Sprintf("line %d: vendor %d not found: %v", line.ID, *vendorID, err))
			result.Failed++
			continue
		}

		_, created, err := s.commissionSvc.RecordCommission(line, vendor, nil)
		if err != nil {
			s.auditFailure(order.ID, fmt.Sprintf("line %d: %v", line.ID, err))
			result.Failed++
			continue
		}
		if created {
			result.Created++
			notify[vendor.ID] = vendor
		} else {
			result.Skipped++
		}
	}

	for _, vendor := range notify {
		subject := fmt.Sprintf("New order %s", order.OrderNumber)
		body := fmt.Sprintf("Your shop %s received new order lines on order %s.", vendor.ShopName, order.OrderNumber)
		if err := s.notifier.SendVendorAlert(vendor.Email, subject, body); err != nil {
			log.Printf("Warning: failed to notify vendor %d about order %s: %v", vendor.ID, order.OrderNumber, err)
			continue
		}
		result.Notified++
	}
	return result
}

func (s *orderService) auditFailure(orderID uint, detail string) {
	entry := &models.AuditLog{
		EntityType: models.AuditEntityOrder,
		EntityID:   orderID,
		Event:      "commission_generation_failed",
		Detail:     detail,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		log.Printf("Warning: failed to write order audit entry: %v", err)
	}
}
