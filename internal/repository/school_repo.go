package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amare53/school-sub001/internal/model"
)

type SchoolRepository interface {
	Create(ctx context.Context, s *model.School) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.School, error)
	FindByCode(ctx context.Context, code string) (*model.School, error)
}

type schoolRepo struct{ db *gorm.DB }

func NewSchoolRepository(db *gorm.DB) SchoolRepository { return &schoolRepo{db: db} }

func (r *schoolRepo) Create(ctx context.Context, s *model.School) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *schoolRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.School, error) {
	var s model.School
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *schoolRepo) FindByCode(ctx context.Context, code string) (*model.School, error) {
	var s model.School
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&s).Error
	return &s, err
}
