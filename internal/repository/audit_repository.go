package repository

import (
	"marketplace_platform/internal/models"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(entry *models.AuditLog) error
	GetByEntity(entityType string, entityID uint) ([]models.AuditLog, error)
	WithTx(tx *gorm.DB) AuditRepository
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) WithTx(tx *gorm.DB) AuditRepository {
	return &auditRepository{db: tx}
}

func (r *auditRepository) Create(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditRepository) GetByEntity(entityType string, entityID uint) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").Find(&entries).Error
	return entries, err
}
