package di

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	echoapi "github.com/trezcool/placement/apps/api/echo"
	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/assignment"
	"github.com/trezcool/placement/core/project"
	"github.com/trezcool/placement/core/request"
	"github.com/trezcool/placement/core/student"
	emailsvc "github.com/trezcool/placement/services/email"
	logsvc "github.com/trezcool/placement/services/logger"
	"github.com/trezcool/placement/storage/database"
	sqlxrepos "github.com/trezcool/placement/storage/database/sqlx"
)

type ServerParams struct {
	dig.In

	Conf       *core.Config
	Logger     *zap.Logger
	ProjectSvc *project.Service
	StudentSvc *student.Service
	Ledger     *assignment.Ledger
	Workflow   *request.Workflow
}

func newLogger(conf *core.Config) *zap.Logger {
	logger, err := logsvc.New(conf)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	return logger
}

func newDB(conf *core.Config, logger *zap.Logger) (*sqlx.DB, core.DB, core.DBExecutor) {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(context.Background(), db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		logger.Fatal("setting up database", zap.Error(err))
	}
	return db, db, db
}

func newValidator() *core.Validator {
	v := core.NewValidator()
	project.InitValidators(v)
	return v
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Options{
		Address:      p.Conf.Server.Address,
		ReadTimeout:  p.Conf.Server.ReadTimeout,
		WriteTimeout: p.Conf.Server.WriteTimeout,
		Debug:        p.Conf.Debug,
		TestMode:     p.Conf.TestMode,
		Logger:       p.Logger.Named("http"),
		ProjectSvc:   p.ProjectSvc,
		StudentSvc:   p.StudentSvc,
		Ledger:       p.Ledger,
		Workflow:     p.Workflow,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDB))
	must(c.Provide(core.NewTxManager))
	must(c.Provide(newValidator))

	// repositories
	must(c.Provide(sqlxrepos.NewProjectRepository, dig.As(new(project.Repository))))
	must(c.Provide(sqlxrepos.NewStudentRepository, dig.As(new(student.Repository), new(student.Directory))))
	must(c.Provide(sqlxrepos.NewAssignmentRepository, dig.As(new(assignment.Repository))))
	must(c.Provide(sqlxrepos.NewRequestRepository, dig.As(new(request.Repository))))

	// services
	must(c.Provide(emailsvc.NewService))
	must(c.Provide(emailsvc.NewRequestNotifier, dig.As(new(request.Notifier))))
	must(c.Provide(project.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(assignment.NewLedger))
	must(c.Provide(request.NewWorkflow))

	must(c.Provide(newServer))
	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
