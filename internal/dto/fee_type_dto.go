package dto

type CreateFeeTypeRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Code        string  `json:"code" validate:"required,min=1,max=30"`
	Description *string `json:"description"`
}

type UpdateFeeTypeRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

type FeeTypeResponse struct {
	ID          string  `json:"id"`
	SchoolID    string  `json:"schoolId"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
}
