package main

import (
	"time"

	"github.com/wilsonXeem/school-results-management-system-server/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	s, err := cli.staffRepo.GetStaffByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err = s.SetPassword(pwd); err != nil {
		return err
	}
	s.UpdatedAt = time.Now().UTC()
	_, err = cli.staffRepo.UpdateStaff(s, nil, nil)
	return err
}
