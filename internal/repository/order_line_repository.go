package repository

import (
	"marketplace_platform/internal/models"

	"gorm.io/gorm"
)

type OrderLineRepository interface {
	Create(line *models.OrderLine) error
	GetByID(id uint) (*models.OrderLine, error)
	// GetByOrderID returns the order's lines with their products preloaded,
	// so vendor attribution can be resolved without extra queries.
	GetByOrderID(orderID uint) ([]models.OrderLine, error)
	GetByVendorID(vendorID uint) ([]models.OrderLine, error)
	Update(line *models.OrderLine) error
	Delete(id uint) error
}

type orderLineRepository struct {
	db *gorm.DB
}

func NewOrderLineRepository(db *gorm.DB) OrderLineRepository {
	return &orderLineRepository{db: db}
}

func (r *orderLineRepository) Create(line *models.OrderLine) error {
	return r.db.Create(line).Error
}

func (r *orderLineRepository) GetByID(id uint) (*models.OrderLine, error) {
	var line models.OrderLine
	err := r.db.Preload("Product").First(&line, id).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *orderLineRepository) GetByOrderID(orderID uint) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.db.Preload("Product").Where("order_id = ?", orderID).Order("id ASC").Find(&lines).Error
	return lines, err
}

func (r *orderLineRepository) GetByVendorID(vendorID uint) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.db.Preload("Product").
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("products.vendor_id = ?", vendorID).
		Find(&lines).Error
	return lines, err
}

func (r *orderLineRepository) Update(line *models.OrderLine) error {
	return r.db.Save(line).Error
}

func (r *orderLineRepository) Delete(id uint) error {
	return r.db.Delete(&models.OrderLine{}, id).Error
}
