package repository

import (
	"marketplace_platform/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayoutRepository interface {
	Create(payout *models.Payout) error
	GetByID(id uint) (*models.Payout, error)
	GetByVendorID(vendorID uint) ([]models.Payout, error)
	GetByState(state string) ([]models.Payout, error)
	// SumOutstanding totals the vendor's requested and validated payouts.
	// Requested money is reserved: it no longer backs new payout requests
	// even though it has not settled any commission yet.
	SumOutstanding(vendorID uint) (decimal.Decimal, error)
	Update(payout *models.Payout) error
	WithTx(tx *gorm.DB) PayoutRepository
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) WithTx(tx *gorm.DB) PayoutRepository {
	return &payoutRepository{db: tx}
}

func (r *payoutRepository) Create(payout *models.Payout) error {
	return r.db.Create(payout).Error
}

func (r *payoutRepository) GetByID(id uint) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.First(&payout, id).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) GetByVendorID(vendorID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&payouts).Error
	return payouts, err
}

func (r *payoutRepository) GetByState(state string) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Where("state = ?", state).Find(&payouts).Error
	return payouts, err
}

func (r *payoutRepository) SumOutstanding(vendorID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&models.Payout{}).
		Select("SUM(amount)").
		Where("vendor_id = ? AND state IN ?", vendorID,
			[]string{string(models.PayoutRequested), string(models.PayoutValidated)}).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *payoutRepository) Update(payout *models.Payout) error {
	return r.db.Save(payout).Error
}
