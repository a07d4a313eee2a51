package dto

type CreateStudentRequest struct {
	FirstName     string  `json:"firstName"     validate:"required,min=1,max=100"`
	LastName      string  `json:"lastName"      validate:"required,min=1,max=100"`
	Matricule     string  `json:"matricule"     validate:"required,min=1,max=30"`
	GuardianEmail *string `json:"guardianEmail" validate:"omitempty,email"`
}

type UpdateStudentRequest struct {
	FirstName     *string `json:"firstName"     validate:"omitempty,min=1,max=100"`
	LastName      *string `json:"lastName"      validate:"omitempty,min=1,max=100"`
	GuardianEmail *string `json:"guardianEmail" validate:"omitempty,email"`
	Active        *bool   `json:"active"`
}

type StudentResponse struct {
	ID            string  `json:"id"`
	SchoolID      string  `json:"schoolId"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Matricule     string  `json:"matricule"`
	GuardianEmail *string `json:"guardianEmail"`
	Active        bool    `json:"active"`
}
