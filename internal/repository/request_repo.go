package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Request, error)
	Save(ctx context.Context, req *model.Request) error
	List(ctx context.Context, page, limit int) ([]model.Request, int64, error)
	ListByDepartment(ctx context.Context, dept string, activeOnly bool) ([]model.Request, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	var req model.Request
	if err := GetDB(ctx, r.db).Preload("Project").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) Save(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *requestRepository) List(ctx context.Context, page, limit int) ([]model.Request, int64, error) {
	var requests []model.Request
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Request{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Project").Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ListByDepartment returns the department's inbound queue. With activeOnly the
// closed statuses (DONE, REJECTED) are filtered out. There is no separate
// archive table, "active" is a predicate over the one collection.
func (r *requestRepository) ListByDepartment(ctx context.Context, dept string, activeOnly bool) ([]model.Request, error) {
	var requests []model.Request

	query := GetDB(ctx, r.db).Preload("Project").Where("to_department = ?", dept)
	if activeOnly {
		query = query.Where("status NOT IN ?", []string{model.StatusDone, model.StatusRejected})
	}
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}
