package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/wilsonXeem/school-results-management-system-server/core"
)

// Shared request/response shapes.

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	// SessionRef identifies one (session, semester) period in request bodies.
	SessionRef struct {
		Session  string `json:"session" validate:"required,sessionname"`
		Semester int    `json:"semester" validate:"semester"`
	}

	// RosterRequest resolves a cohort view.
	RosterRequest struct {
		ClassID  string `json:"class_id" validate:"required"`
		Session  string `json:"session" validate:"required,sessionname"`
		Semester int    `json:"semester" validate:"semester"`
		Level    int    `json:"level" validate:"level"`
	}

	// ProbationRequest scopes a probation scan.
	ProbationRequest struct {
		Session string `json:"session" validate:"required,sessionname"`
		Level   int    `json:"level" validate:"omitempty,level"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}

func (sr *SessionRef) Validate(validate *validator.Validate) error {
	sr.Session = core.CleanString(sr.Session)
	return validate.Struct(sr)
}

func (rr *RosterRequest) Validate(validate *validator.Validate) error {
	rr.Session = core.CleanString(rr.Session)
	return validate.Struct(rr)
}

func (pr *ProbationRequest) Validate(validate *validator.Validate) error {
	pr.Session = core.CleanString(pr.Session)
	return validate.Struct(pr)
}
