package postgresdb

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/wilsonXeem/school-results-management-system-server/core/staff"
)

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *sqlx.DB) staff.Repository {
	return &staffRepository{db: db}
}

func (repo *staffRepository) CheckEmailUniqueness(email string, excluded ...staff.Staff) error {
	q := `SELECT COUNT(*) FROM staff WHERE email = ?`
	args := []interface{}{email}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, s := range excluded {
			ids = append(ids, s.ID)
		}
		inQ, inArgs, err := sqlx.In(` AND id NOT IN (?)`, ids)
		if err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
		q += inQ
		args = append(args, inArgs...)
	}

	var count int
	if err := repo.db.Get(&count, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return staff.ErrEmailExists
	}
	return nil
}

func (repo *staffRepository) CreateStaff(s staff.Staff) (staff.Staff, error) {
	s.ID = uuid.NewString()
	_, err := repo.db.NamedExec(`
		INSERT INTO staff (id, name, email, is_admin, is_active, password_hash, created_at, updated_at, last_login)
		VALUES (:id, :name, :email, :is_admin, :is_active, :password_hash, :created_at, :updated_at, :last_login)`, s)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "creating staff")
	}
	return s, nil
}

func (repo *staffRepository) QueryAllStaff() ([]staff.Staff, error) {
	all := make([]staff.Staff, 0)
	if err := repo.db.Select(&all, `SELECT * FROM staff ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying staff")
	}
	return all, nil
}

func (repo *staffRepository) GetStaffByID(id string) (staff.Staff, error) {
	var s staff.Staff
	err := repo.db.Get(&s, `SELECT * FROM staff WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return staff.Staff{}, staff.ErrNotFound
		}
		return staff.Staff{}, errors.Wrap(err, "getting staff")
	}
	return s, nil
}

func (repo *staffRepository) GetStaffByEmail(email string) (staff.Staff, error) {
	var s staff.Staff
	err := repo.db.Get(&s, `SELECT * FROM staff WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return staff.Staff{}, staff.ErrNotFound
		}
		return staff.Staff{}, errors.Wrap(err, "getting staff")
	}
	return s, nil
}

// UpdateStaff only saves set fields, matching partial updates from the
// service layer.
func (repo *staffRepository) UpdateStaff(s staff.Staff, isActive, isAdmin *bool) (staff.Staff, error) {
	orig, err := repo.GetStaffByID(s.ID)
	if err != nil {
		return staff.Staff{}, err
	}
	if s.Name != "" {
		orig.Name = s.Name
	}
	if s.Email != "" {
		orig.Email = s.Email
	}
	if s.PasswordHash != nil {
		orig.PasswordHash = s.PasswordHash
	}
	if !s.LastLogin.IsZero() {
		orig.LastLogin = s.LastLogin
	}
	if !s.UpdatedAt.IsZero() {
		orig.UpdatedAt = s.UpdatedAt
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	if isAdmin != nil {
		orig.IsAdmin = *isAdmin
	}

	_, err = repo.db.NamedExec(`
		UPDATE staff
		SET name = :name, email = :email, is_admin = :is_admin, is_active = :is_active,
		    password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`, orig)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "updating staff")
	}
	return orig, nil
}

func (repo *staffRepository) DeleteStaff(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM staff WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting staff")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting staff")
	}
	return nil
}
