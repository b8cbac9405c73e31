package repository

import (
	"errors"
	"strings"

	"marketplace_platform/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CommissionRepository interface {
	Create(commission *models.Commission) error
	GetByID(id uint) (*models.Commission, error)
	// GetRootByOrderLineID returns the generation-created record for a line,
	// regardless of state. Settlement-split children are not considered.
	GetRootByOrderLineID(orderLineID uint) (*models.Commission, error)
	GetByVendorID(vendorID uint) ([]models.Commission, error)
	// GetConfirmedFIFO returns the vendor's confirmed records ordered oldest
	// confirmation first, id as tiebreak. This is the settlement order.
	GetConfirmedFIFO(vendorID uint) ([]models.Commission, error)
	// SumConfirmed computes the vendor's balance: the total vendor amount
	// still sitting in confirmed records.
	SumConfirmed(vendorID uint) (decimal.Decimal, error)
	Update(commission *models.Commission) error
	WithTx(tx *gorm.DB) CommissionRepository
}

// ErrDuplicateKey surfaces a unique constraint violation on create, so the
// caller can fall back to the existing record instead of failing.
var ErrDuplicateKey = errors.New("duplicate key")

type commissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) WithTx(tx *gorm.DB) CommissionRepository {
	return &commissionRepository{db: tx}
}

func (r *commissionRepository) Create(commission *models.Commission) error {
	err := r.db.Create(commission).Error
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicateKey
	}
	return err
}

func (r *commissionRepository) GetByID(id uint) (*models.Commission, error) {
	var commission models.Commission
	err := r.db.First(&commission, id).Error
	if err != nil {
		return nil, err
	}
	return &commission, nil
}

func (r *commissionRepository) GetRootByOrderLineID(orderLineID uint) (*models.Commission, error) {
	var commission models.Commission
	err := r.db.Where("order_line_id = ? AND parent_id IS NULL", orderLineID).First(&commission).Error
	if err != nil {
		return nil, err
	}
	return &commission, nil
}

func (r *commissionRepository) GetByVendorID(vendorID uint) ([]models.Commission, error) {
	var commissions []models.Commission
	err := r.db.Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&commissions).Error
	return commissions, err
}

func (r *commissionRepository) GetConfirmedFIFO(vendorID uint) ([]models.Commission, error) {
	var commissions []models.Commission
	err := r.db.
		Where("vendor_id = ? AND state = ?", vendorID, string(models.CommissionConfirmed)).
		Order("confirmed_at ASC, id ASC").
		Find(&commissions).Error
	return commissions, err
}

func (r *commissionRepository) SumConfirmed(vendorID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&models.Commission{}).
		Select("SUM(vendor_amount)").
		Where("vendor_id = ? AND state = ?", vendorID, string(models.CommissionConfirmed)).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *commissionRepository) Update(commission *models.Commission) error {
	return r.db.Save(commission).Error
}
