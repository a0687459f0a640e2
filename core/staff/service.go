package staff

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/wilsonXeem/school-results-management-system-server/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("staff")
	ErrEmailExists = errors.New("an account with this email already exists")
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists when the email is
		// taken by an account outside the excluded set.
		CheckEmailUniqueness(email string, excluded ...Staff) error
		CreateStaff(s Staff) (Staff, error)
		QueryAllStaff() ([]Staff, error)
		GetStaffByID(id string) (Staff, error)
		GetStaffByEmail(email string) (Staff, error)
		UpdateStaff(s Staff, isActive, isAdmin *bool) (Staff, error)
		DeleteStaff(ids ...string) error
	}

	Service interface {
		CheckUniqueness(email string, excluded ...Staff) error
		Create(ns NewStaff) (Staff, error)
		QueryAll() ([]Staff, error)
		GetByID(id string) (Staff, error)
		GetByEmail(email string) (Staff, error)
		Update(id string, us UpdateStaff) (Staff, error)
		Delete(ids ...string) error
		SetLastLogin(s Staff) (Staff, error)
		// RequestPasswordReset emails a signed reset link. A missing account
		// is reported to the caller as ErrNotFound; nothing is sent.
		RequestPasswordReset(email string) error
		ResetPassword(rp ResetStaffPassword) (Staff, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger, conf *core.Config) Service {
	return &service{repo: repo, mailSvc: mailSvc, logger: logger, conf: conf}
}

func (svc *service) CheckUniqueness(email string, excluded ...Staff) error {
	if err := svc.repo.CheckEmailUniqueness(email, excluded...); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ns NewStaff) (Staff, error) {
	now := time.Now().UTC()
	s := Staff{
		Name:      ns.Name,
		Email:     ns.Email,
		IsAdmin:   ns.IsAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.SetPassword(ns.Password); err != nil {
		return Staff{}, err
	}
	return svc.repo.CreateStaff(s)
}

func (svc *service) QueryAll() ([]Staff, error) {
	return svc.repo.QueryAllStaff()
}

func (svc *service) GetByID(id string) (Staff, error) {
	return svc.repo.GetStaffByID(id)
}

func (svc *service) GetByEmail(email string) (Staff, error) {
	return svc.repo.GetStaffByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) Update(id string, us UpdateStaff) (Staff, error) {
	s := Staff{
		ID:        id,
		Name:      us.Name,
		Email:     us.Email,
		UpdatedAt: time.Now().UTC(),
	}
	if us.Password != "" {
		if err := s.SetPassword(us.Password); err != nil {
			return Staff{}, err
		}
	}
	return svc.repo.UpdateStaff(s, us.IsActive, us.IsAdmin)
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteStaff(ids...)
}

func (svc *service) SetLastLogin(s Staff) (Staff, error) {
	s.LastLogin = time.Now().UTC()
	return svc.repo.UpdateStaff(Staff{ID: s.ID, LastLogin: s.LastLogin}, nil, nil)
}

func (svc *service) RequestPasswordReset(email string) error {
	s, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	token, err := MakeToken(s, svc.conf.SecretKey)
	if err != nil {
		return err
	}
	url := fmt.Sprintf(
		"%s/password-reset/confirm?uid=%s&token=%s",
		svc.conf.FrontendBaseURL, EncodeUID(s), token,
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: s.Name, Address: s.Email}},
		Subject: "Password reset",
		Body: fmt.Sprintf(
			"A password reset was requested for your account.\n\n"+
				"Follow this link to choose a new password:\n%s\n\n"+
				"If you did not request a reset, ignore this message.", url,
		),
	})
	return nil
}

func (svc *service) ResetPassword(rp ResetStaffPassword) (Staff, error) {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return Staff{}, ErrNotFound
	}
	s, err := svc.repo.GetStaffByID(id)
	if err != nil {
		return Staff{}, err
	}
	if err = verifyToken(s, rp.Token, svc.conf.SecretKey, svc.conf.PasswordResetTimeoutDelta); err != nil {
		return Staff{}, core.NewValidationError(err, core.FieldError{Field: "token", Error: err.Error()})
	}
	if err = s.SetPassword(rp.Password); err != nil {
		return Staff{}, err
	}
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStaff(s, nil, nil)
}
