package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/model"
	"github.com/amare53/school-sub001/internal/repository"
)

var ErrDuplicateFeeCode = errors.New("fee type code already exists for this school")

type FeeTypeService interface {
	Create(ctx context.Context, schoolID uuid.UUID, req dto.CreateFeeTypeRequest) (*dto.FeeTypeResponse, error)
	List(ctx context.Context, schoolID uuid.UUID) ([]dto.FeeTypeResponse, error)
	Update(ctx context.Context, schoolID, id uuid.UUID, req dto.UpdateFeeTypeRequest) (*dto.FeeTypeResponse, error)
	Deactivate(ctx context.Context, schoolID, id uuid.UUID) error
}

type feeTypeService struct {
	repo repository.FeeTypeRepository
}

func NewFeeTypeService(repo repository.FeeTypeRepository) FeeTypeService {
	return &feeTypeService{repo: repo}
}

func (s *feeTypeService) Create(ctx context.Context, schoolID uuid.UUID, req dto.CreateFeeTypeRequest) (*dto.FeeTypeResponse, error) {
	if existing, err := s.repo.FindByCode(ctx, schoolID, req.Code); err == nil && existing != nil {
		return nil, ErrDuplicateFeeCode
	}

	feeType := &model.FeeType{
		SchoolID:    schoolID,
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.Create(ctx, feeType); err != nil {
		return nil, err
	}
	resp := toFeeTypeResponse(feeType)
	return &resp, nil
}

func (s *feeTypeService) List(ctx context.Context, schoolID uuid.UUID) ([]dto.FeeTypeResponse, error) {
	types, err := s.repo.List(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.FeeTypeResponse, len(types))
	for i := range types {
		resp[i] = toFeeTypeResponse(&types[i])
	}
	return resp, nil
}

func (s *feeTypeService) Update(ctx context.Context, schoolID, id uuid.UUID, req dto.UpdateFeeTypeRequest) (*dto.FeeTypeResponse, error) {
	feeType, err := s.repo.FindByID(ctx, id)
	if err != nil || feeType.SchoolID != schoolID {
		return nil, ErrFeeTypeNotFound
	}
	if req.Name != nil {
		feeType.Name = *req.Name
	}
	if req.Description != nil {
		feeType.Description = req.Description
	}
	if req.Active != nil {
		feeType.Active = *req.Active
	}
	if err := s.repo.Update(ctx, feeType); err != nil {
		return nil, err
	}
	resp := toFeeTypeResponse(feeType)
	return &resp, nil
}

func (s *feeTypeService) Deactivate(ctx context.Context, schoolID, id uuid.UUID) error {
	feeType, err := s.repo.FindByID(ctx, id)
	if err != nil || feeType.SchoolID != schoolID {
		return ErrFeeTypeNotFound
	}
	return s.repo.Deactivate(ctx, id)
}

func toFeeTypeResponse(f *model.FeeType) dto.FeeTypeResponse {
	return dto.FeeTypeResponse{
		ID:          f.ID.String(),
		SchoolID:    f.SchoolID.String(),
		Name:        f.Name,
		Code:        f.Code,
		Description: f.Description,
		Active:      f.Active,
	}
}
