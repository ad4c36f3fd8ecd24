package request

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/assignment"
	"github.com/trezcool/placement/core/project"
	"github.com/trezcool/placement/core/student"
)

type Repository interface {
	// CreateRequest returns core.ErrDuplicateRequest when a Pending request already exists for the pair.
	CreateRequest(ctx context.Context, r Request, exec ...core.DBExecutor) (Request, error)
	GetRequest(ctx context.Context, id int64, exec ...core.DBExecutor) (Request, error)
	QueryRequests(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Request, error)
	// UpdateRequestStatus moves a request from one status to another; false means it was not in `from`.
	UpdateRequestStatus(ctx context.Context, id int64, from, to string, at time.Time, exec ...core.DBExecutor) (bool, error)
}

// Notifier is told about committed decisions. It must not block the caller for long.
type Notifier interface {
	NotifyDecision(ctx context.Context, r Request)
}

// Workflow runs the Pending -> Approved | Rejected state machine. Approval goes through the assignment
// ledger, so capacity is re-validated at decision time.
type Workflow struct {
	txm      *core.TxManager
	repo     Repository
	projects *project.Service
	students student.Directory
	ledger   *assignment.Ledger
	notifier Notifier
	validate *core.Validator
	logger   *zap.Logger
}

func NewWorkflow(
	txm *core.TxManager,
	repo Repository,
	projects *project.Service,
	students student.Directory,
	ledger *assignment.Ledger,
	notifier Notifier,
	validate *core.Validator,
	logger *zap.Logger,
) *Workflow {
	return &Workflow{
		txm:      txm,
		repo:     repo,
		projects: projects,
		students: students,
		ledger:   ledger,
		notifier: notifier,
		validate: validate,
		logger:   logger,
	}
}

func (wf *Workflow) Submit(ctx context.Context, nr NewRequest) (Request, error) {
	if err := wf.validate.Struct(nr); err != nil {
		return Request{}, err
	}

	if _, err := wf.projects.GetByID(ctx, nr.ProjectID); err != nil {
		return Request{}, err
	}
	exists, err := wf.students.StudentExists(ctx, nr.StudentID)
	if err != nil {
		return Request{}, errors.Wrap(err, "checking student")
	}
	if !exists {
		return Request{}, student.ErrNotFound
	}

	r, err := wf.repo.CreateRequest(ctx, Request{
		ProjectID:   nr.ProjectID,
		StudentID:   nr.StudentID,
		Status:      StatusPending,
		SubmittedAt: core.NowFunc(),
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateRequest) {
			return Request{}, err
		}
		return Request{}, errors.Wrap(err, "creating request")
	}
	return wf.repo.GetRequest(ctx, r.ID)
}

// Approve accepts a Pending request and assigns its student, both in one transaction.
// It returns false when the request does not exist or is no longer Pending.
// When the assignment fails the request stays Pending and the error is returned.
func (wf *Workflow) Approve(ctx context.Context, id int64) (bool, error) {
	return wf.decide(ctx, id, StatusApproved, func(tx core.DBExecutor, r Request) error {
		_, err := wf.ledger.Assign(ctx, r.ProjectID, r.StudentID, tx)
		return err
	})
}

// Reject closes a Pending request without side effects. It returns false when it was not Pending.
func (wf *Workflow) Reject(ctx context.Context, id int64) (bool, error) {
	return wf.decide(ctx, id, StatusRejected, nil)
}

func (wf *Workflow) decide(
	ctx context.Context,
	id int64,
	status string,
	effect func(tx core.DBExecutor, r Request) error,
) (bool, error) {
	var (
		decided bool
		r       Request
	)
	err := wf.txm.WithinTx(ctx, func(tx core.DBExecutor) error {
		ok, err := wf.repo.UpdateRequestStatus(ctx, id, StatusPending, status, core.NowFunc(), tx)
		if err != nil {
			return errors.Wrap(err, "updating request status")
		}
		if !ok {
			return nil
		}

		if r, err = wf.repo.GetRequest(ctx, id, tx); err != nil {
			return err
		}
		if effect != nil {
			if err = effect(tx, r); err != nil {
				return err
			}
		}
		decided = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if decided && wf.notifier != nil {
		wf.notifier.NotifyDecision(ctx, r)
	}
	return decided, nil
}

func (wf *Workflow) Get(ctx context.Context, id int64) (Request, error) {
	return wf.repo.GetRequest(ctx, id)
}

func (wf *Workflow) ListPending(ctx context.Context) ([]Request, error) {
	return wf.repo.QueryRequests(ctx, QueryFilter{Status: StatusPending})
}

// ListByProject returns every request of a project in submission order.
func (wf *Workflow) ListByProject(ctx context.Context, projectID int64) ([]Request, error) {
	if _, err := wf.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return wf.repo.QueryRequests(ctx, QueryFilter{ProjectID: projectID})
}

func (wf *Workflow) ListByStudent(ctx context.Context, studentID int64) ([]Request, error) {
	if _, err := wf.students.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return wf.repo.QueryRequests(ctx, QueryFilter{StudentID: studentID})
}
