package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/assignment"
	"github.com/trezcool/placement/core/project"
	"github.com/trezcool/placement/core/request"
	"github.com/trezcool/placement/core/student"
	emailsvc "github.com/trezcool/placement/services/email"
	"github.com/trezcool/placement/storage/database"
	sqlxrepos "github.com/trezcool/placement/storage/database/sqlx"
)

// PrepareDB opens a fresh, migrated SQLite database that lives as long as the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "placement.db"))
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// Services wires the placement services on top of db the same way the API does.
type Services struct {
	DB          *sqlx.DB
	Tx          *core.TxManager
	Validator   *core.Validator
	ProjectRepo project.Repository
	StudentRepo student.Repository
	Projects    *project.Service
	Students    *student.Service
	Ledger      *assignment.Ledger
	Workflow    *request.Workflow
	Mailer      *emailsvc.ConsoleServiceMock
}

func NewServices(t *testing.T, db *sqlx.DB) *Services {
	t.Helper()

	logger := zap.NewNop()
	conf := &core.Config{AppName: "Placement", DefaultFromEmail: "noreply@placement.test", TestMode: true}

	validate := core.NewValidator()
	project.InitValidators(validate)

	txm := core.NewTxManager(db, logger)
	projectRepo := sqlxrepos.NewProjectRepository(db)
	studentRepo := sqlxrepos.NewStudentRepository(db)
	projects := project.NewService(projectRepo, validate)
	ledger := assignment.NewLedger(txm, projects, sqlxrepos.NewAssignmentRepository(db), studentRepo, logger)
	mailer := emailsvc.NewConsoleServiceMock(conf)
	workflow := request.NewWorkflow(
		txm,
		sqlxrepos.NewRequestRepository(db),
		projects,
		studentRepo,
		ledger,
		emailsvc.NewRequestNotifier(mailer, logger),
		validate,
		logger,
	)

	return &Services{
		DB:          db,
		Tx:          txm,
		Validator:   validate,
		ProjectRepo: projectRepo,
		StudentRepo: studentRepo,
		Projects:    projects,
		Students:    student.NewService(studentRepo, validate),
		Ledger:      ledger,
		Workflow:    workflow,
		Mailer:      mailer,
	}
}

func CreateStudent(t *testing.T, repo student.Repository, code, name, email string) student.Student {
	t.Helper()

	s, err := repo.CreateStudent(context.Background(), student.Student{Code: code, Name: name, Email: email})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateProject(t *testing.T, repo project.Repository, title string, capacity int, status ...string) project.Project {
	t.Helper()

	st := project.StatusActive
	if len(status) > 0 {
		st = status[0]
	}
	now := core.NowFunc()
	p, err := repo.CreateProject(context.Background(), project.Project{
		Title:     title,
		Status:    st,
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}
	return p
}

// GetProject re-reads a project, for asserting on its occupancy.
func GetProject(t *testing.T, svc *project.Service, id int64) project.Project {
	t.Helper()

	p, err := svc.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetProject() failed: %v", err)
	}
	return p
}
