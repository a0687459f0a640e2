package main

import (
	"log"
	"os"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/recon"
	"github.com/wilsonXeem/school-results-management-system-server/core/result"
	"github.com/wilsonXeem/school-results-management-system-server/core/session"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
	emailsvc "github.com/wilsonXeem/school-results-management-system-server/services/email"
	logsvc "github.com/wilsonXeem/school-results-management-system-server/services/logger"
	"github.com/wilsonXeem/school-results-management-system-server/storage/database"
	postgresdb "github.com/wilsonXeem/school-results-management-system-server/storage/database/postgres"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	studentRepo := postgresdb.NewStudentRepository(db)
	sessionRepo := postgresdb.NewSessionRepository(db)
	resultRepo := postgresdb.NewResultRepository(db)
	staffRepo := postgresdb.NewStaffRepository(db)

	studentSvc := student.NewService(studentRepo, appLogger)
	sessionSvc := session.NewService(sessionRepo)
	mailSvc := emailsvc.NewConsoleService(conf)
	resultSvc := result.NewService(resultRepo, studentSvc, sessionSvc, mailSvc, nil, appLogger, conf)

	// start CLI
	cli := commandLine{
		db:        db,
		staffRepo: staffRepo,
		reconSvc:  recon.NewService(resultRepo, studentRepo, resultSvc, appLogger),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
