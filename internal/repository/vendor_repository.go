package repository

import (
	"marketplace_platform/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VendorRepository interface {
	Create(vendor *models.Vendor) error
	GetByID(id uint) (*models.Vendor, error)
	GetByPartnerID(partnerID uint) (*models.Vendor, error)
	GetByShopURL(shopURL string) (*models.Vendor, error)
	GetByState(state string) ([]models.Vendor, error)
	GetAll() ([]models.Vendor, error)
	Update(vendor *models.Vendor) error
	Delete(id uint) error

	// LockByID fetches the vendor row under SELECT ... FOR UPDATE. Only
	// meaningful on a repository bound to a transaction; it serializes
	// balance validation against concurrent payout activity.
	LockByID(id uint) (*models.Vendor, error)
	WithTx(tx *gorm.DB) VendorRepository
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) WithTx(tx *gorm.DB) VendorRepository {
	return &vendorRepository{db: tx}
}

func (r *vendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

func (r *vendorRepository) GetByID(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.First(&vendor, id).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) GetByPartnerID(partnerID uint) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.Where("partner_id = ?", partnerID).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) GetByShopURL(shopURL string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.Where("shop_url = ?", shopURL).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) GetByState(state string) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.Where("state = ?", state).Find(&vendors).Error
	return vendors, err
}

func (r *vendorRepository) GetAll() ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.Find(&vendors).Error
	return vendors, err
}

func (r *vendorRepository) Update(vendor *models.Vendor) error {
	return r.db.Save(vendor).Error
}

func (r *vendorRepository) Delete(id uint) error {
	return r.db.Delete(&models.Vendor{}, id).Error
}

func (r *vendorRepository) LockByID(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&vendor, id).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}
