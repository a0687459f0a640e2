package dummydb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/wilsonXeem/school-results-management-system-server/core/staff"
)

type staffRepository struct {
	db *staffTable
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *DB) staff.Repository {
	return &staffRepository{db: db.staff}
}

func (repo *staffRepository) query() []staff.Staff {
	all := make([]staff.Staff, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

func (repo *staffRepository) CheckEmailUniqueness(email string, excluded ...staff.Staff) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.table {
		if s.Email == email && !isExcluded(*s, excluded) {
			return staff.ErrEmailExists
		}
	}
	return nil
}

func (repo *staffRepository) CreateStaff(s staff.Staff) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = uuid.NewString()
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *staffRepository) QueryAllStaff() ([]staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *staffRepository) GetStaffByID(id string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) GetStaffByEmail(email string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.table {
		if s.Email == email {
			return *s, nil
		}
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) UpdateStaff(s staff.Staff, isActive, isAdmin *bool) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.table[s.ID]
	if !ok {
		return staff.Staff{}, staff.ErrNotFound
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
	return *orig, nil
}

func (repo *staffRepository) DeleteStaff(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func isExcluded(s staff.Staff, excluded []staff.Staff) bool {
	for _, e := range excluded {
		if e.ID == s.ID {
			return true
		}
	}
	return false
}
