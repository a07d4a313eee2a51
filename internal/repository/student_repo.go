package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amare53/school-sub001/internal/model"
)

type StudentRepository interface {
	Create(ctx context.Context, s *model.Student) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	FindByMatricule(ctx context.Context, schoolID uuid.UUID, matricule string) (*model.Student, error)
	List(ctx context.Context, schoolID uuid.UUID, page, limit int) ([]model.Student, int64, error)
	Update(ctx context.Context, s *model.Student) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type studentRepo struct{ db *gorm.DB }

func NewStudentRepository(db *gorm.DB) StudentRepository { return &studentRepo{db: db} }

func (r *studentRepo) Create(ctx context.Context, s *model.Student) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *studentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *studentRepo) FindByMatricule(ctx context.Context, schoolID uuid.UUID, matricule string) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND matricule = ?", schoolID, matricule).
		First(&s).Error
	return &s, err
}

func (r *studentRepo) List(ctx context.Context, schoolID uuid.UUID, page, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Student{}).Where("school_id = ?", schoolID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("last_name ASC, first_name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&students).Error
	return students, total, err
}

func (r *studentRepo) Update(ctx context.Context, s *model.Student) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *studentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Student{}).Where("id = ?", id).Update("active", false).Error
}
