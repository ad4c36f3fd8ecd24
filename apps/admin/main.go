package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/assignment"
	"github.com/trezcool/placement/core/project"
	"github.com/trezcool/placement/core/student"
	logsvc "github.com/trezcool/placement/services/logger"
	"github.com/trezcool/placement/storage/database"
	sqlxrepos "github.com/trezcool/placement/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger, err := logsvc.New(conf)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	logger = logger.Named("admin")

	// set up DB
	if err = database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", zap.Error(err))
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}

	// set up services
	validate := core.NewValidator()
	project.InitValidators(validate)
	projectSvc := project.NewService(sqlxrepos.NewProjectRepository(db), validate)
	studentRepo := sqlxrepos.NewStudentRepository(db)

	cli := commandLine{
		db:       db,
		projects: projectSvc,
		students: student.NewService(studentRepo, validate),
		ledger: assignment.NewLedger(
			core.NewTxManager(db, logger),
			projectSvc,
			sqlxrepos.NewAssignmentRepository(db),
			studentRepo,
			logger,
		),
		out: os.Stdout,
	}

	// the schema must exist for every command but migrate
	if len(os.Args) > 1 && os.Args[1] != "migrate" {
		if err = database.Migrate(context.Background(), db); err != nil {
			logger.Fatal("migrating database", zap.Error(err))
		}
	}

	// start CLI
	err = cli.run(os.Args)
	_ = db.Close()
	_ = logger.Sync()
	if err != nil {
		if err != errHelp {
			logger.Error("command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
