package main

import (
	"time"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/staff"
)

// createStaff updates or creates a staff.Staff account.
func (cli *commandLine) createStaff(name, email, pwd string, isAdmin bool) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	s, err := cli.staffRepo.GetStaffByEmail(email)
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		s = staff.Staff{
			Name:      name,
			Email:     email,
			IsAdmin:   isAdmin,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = s.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.staffRepo.CreateStaff(s)
		return err
	}

	s.Name = name
	s.UpdatedAt = now
	if err = s.SetPassword(pwd); err != nil {
		return err
	}
	isActive := true
	_, err = cli.staffRepo.UpdateStaff(s, &isActive, &isAdmin)
	return err
}
