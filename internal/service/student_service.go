package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/model"
	"github.com/amare53/school-sub001/internal/repository"
)

var ErrDuplicateMatricule = errors.New("matricule already registered for this school")

type StudentService interface {
	Create(ctx context.Context, schoolID uuid.UUID, req dto.CreateStudentRequest) (*dto.StudentResponse, error)
	Get(ctx context.Context, schoolID, id uuid.UUID) (*dto.StudentResponse, error)
	List(ctx context.Context, schoolID uuid.UUID, page, limit int) ([]dto.StudentResponse, int64, error)
	Update(ctx context.Context, schoolID, id uuid.UUID, req dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Deactivate(ctx context.Context, schoolID, id uuid.UUID) error
}

type studentService struct {
	repo repository.StudentRepository
}

func NewStudentService(repo repository.StudentRepository) StudentService {
	return &studentService{repo: repo}
}

func (s *studentService) Create(ctx context.Context, schoolID uuid.UUID, req dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if existing, err := s.repo.FindByMatricule(ctx, schoolID, req.Matricule); err == nil && existing.ID != uuid.Nil {
		return nil, ErrDuplicateMatricule
	}

	student := &model.Student{
		SchoolID:      schoolID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Matricule:     req.Matricule,
		GuardianEmail: req.GuardianEmail,
		Active:        true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

func (s *studentService) Get(ctx context.Context, schoolID, id uuid.UUID) (*dto.StudentResponse, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil || student.SchoolID != schoolID {
		return nil, ErrStudentNotFound
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

func (s *studentService) List(ctx context.Context, schoolID uuid.UUID, page, limit int) ([]dto.StudentResponse, int64, error) {
	students, total, err := s.repo.List(ctx, schoolID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.StudentResponse, len(students))
	for i := range students {
		resp[i] = toStudentResponse(&students[i])
	}
	return resp, total, nil
}

func (s *studentService) Update(ctx context.Context, schoolID, id uuid.UUID, req dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil || student.SchoolID != schoolID {
		return nil, ErrStudentNotFound
	}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.GuardianEmail != nil {
		student.GuardianEmail = req.GuardianEmail
	}
	if req.Active != nil {
		student.Active = *req.Active
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

func (s *studentService) Deactivate(ctx context.Context, schoolID, id uuid.UUID) error {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil || student.SchoolID != schoolID {
		return ErrStudentNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

func toStudentResponse(st *model.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:            st.ID.String(),
		SchoolID:      st.SchoolID.String(),
		FirstName:     st.FirstName,
		LastName:      st.LastName,
		Matricule:     st.Matricule,
		GuardianEmail: st.GuardianEmail,
		Active:        st.Active,
	}
}
