package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FieldRecordRepository interface {
	Create(ctx context.Context, record *model.FieldRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FieldRecord, error)
	List(ctx context.Context, page, limit int) ([]model.FieldRecord, int64, error)
}

type fieldRecordRepository struct {
	db *gorm.DB
}

func NewFieldRecordRepository(db *gorm.DB) FieldRecordRepository {
	return &fieldRecordRepository{db: db}
}

func (r *fieldRecordRepository) Create(ctx context.Context, record *model.FieldRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *fieldRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FieldRecord, error) {
	var record model.FieldRecord
	if err := GetDB(ctx, r.db).Preload("Project").First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *fieldRecordRepository) List(ctx context.Context, page, limit int) ([]model.FieldRecord, int64, error) {
	var records []model.FieldRecord
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.FieldRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Project").Order("created_at DESC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
