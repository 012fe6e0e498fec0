package handler

import "github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"

type createStudentRequest struct {
	Name    string `json:"name"    validate:"required,max=255"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Phone   string `json:"phone"   validate:"max=32"`
	Address string `json:"address" validate:"max=500"`
}

// updateStudentRequest backs both PUT and PATCH; absent fields stay untouched.
type updateStudentRequest struct {
	Name    *string `json:"name"    validate:"omitnil,min=1,max=255"`
	Email   *string `json:"email"   validate:"omitnil,email,max=255"`
	Phone   *string `json:"phone"   validate:"omitnil,max=32"`
	Address *string `json:"address" validate:"omitnil,max=500"`
}

func (r updateStudentRequest) toPatch() domain.StudentPatch {
	return domain.StudentPatch{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}
