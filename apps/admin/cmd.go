package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/wilsonXeem/school-results-management-system-server/core/recon"
	"github.com/wilsonXeem/school-results-management-system-server/core/staff"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sqlx.DB
	staffRepo staff.Repository
	reconSvc  recon.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run goose database migration commands")
	fmt.Println("  createstaff -name NAME -email EMAIL [-admin] - create or update a staff account; the password is prompted next")
	fmt.Println("  resetpassword -email EMAIL - reset a staff account's password")
	fmt.Println("  inferlevels [-strategy=max|mode] - infer missing result levels from course codes")
	fmt.Println("  mergedupes - merge students whose registration numbers differ only in case or spacing")
	fmt.Println("  cleannames - strip leading junk characters from student names")
	fmt.Println("  backfillgpa - recompute all stored GPA aggregates")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createStaffCmd := flag.NewFlagSet("createstaff", flag.ExitOnError)
	createStaffName := createStaffCmd.String("name", "", "The staff member's full name.")
	createStaffEmail := createStaffCmd.String("email", "", "The staff member's email. The password will be prompted next.")
	createStaffAdmin := createStaffCmd.Bool("admin", false, "Grant admin privileges.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The staff member's email. The password will be prompted next.")

	inferLevelsCmd := flag.NewFlagSet("inferlevels", flag.ExitOnError)
	inferLevelsStrategy := inferLevelsCmd.String("strategy", "max", "Digit-picking strategy: max or mode.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "createstaff":
		if err := createStaffCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createStaffName == "" || *createStaffEmail == "" {
			createStaffCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			createStaffCmd.Usage()
			return errHelp
		}
		return cli.createStaff(*createStaffName, *createStaffEmail, pwd, *createStaffAdmin)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "inferlevels":
		if err := inferLevelsCmd.Parse(args[2:]); err != nil {
			return err
		}
		strategy, err := recon.ParseStrategy(*inferLevelsStrategy)
		if err != nil {
			inferLevelsCmd.Usage()
			return err
		}
		return printReport(cli.reconSvc.InferLevels(strategy))
	case "mergedupes":
		return printReport(cli.reconSvc.MergeDuplicateStudents())
	case "cleannames":
		return printReport(cli.reconSvc.CleanStudentNames())
	case "backfillgpa":
		return printReport(cli.reconSvc.BackfillGPA())
	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func printReport(report recon.Report, err error) error {
	if err != nil {
		return err
	}
	fmt.Printf("processed: %d, updated: %d, skipped: %d\n", report.Processed, report.Updated, report.Skipped)
	return nil
}
