package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amare53/school-sub001/internal/model"
)

type FeeTypeRepository interface {
	Create(ctx context.Context, f *model.FeeType) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FeeType, error)
	FindByCode(ctx context.Context, schoolID uuid.UUID, code string) (*model.FeeType, error)
	List(ctx context.Context, schoolID uuid.UUID) ([]model.FeeType, error)
	Update(ctx context.Context, f *model.FeeType) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type feeTypeRepo struct{ db *gorm.DB }

func NewFeeTypeRepository(db *gorm.DB) FeeTypeRepository { return &feeTypeRepo{db: db} }

func (r *feeTypeRepo) Create(ctx context.Context, f *model.FeeType) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *feeTypeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FeeType, error) {
	var f model.FeeType
	err := r.db.WithContext(ctx).First(&f, id).Error
	return &f, err
}

func (r *feeTypeRepo) FindByCode(ctx context.Context, schoolID uuid.UUID, code string) (*model.FeeType, error) {
	var f model.FeeType
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND code = ?", schoolID, code).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *feeTypeRepo) List(ctx context.Context, schoolID uuid.UUID) ([]model.FeeType, error) {
	var types []model.FeeType
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *feeTypeRepo) Update(ctx context.Context, f *model.FeeType) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *feeTypeRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.FeeType{}).Where("id = ?", id).Update("active", false).Error
}
