package emailsvc

import (
	"context"
	"net/mail"

	"go.uber.org/zap"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/request"
)

var decisionTemplates = map[string]struct {
	name    string
	subject string
}{
	request.StatusApproved: {name: "request_approved", subject: "Your project request was approved"},
	request.StatusRejected: {name: "request_rejected", subject: "Your project request was rejected"},
}

// RequestNotifier emails students when a coordinator decides on their request.
type RequestNotifier struct {
	mailer core.EmailService
	logger *zap.Logger
}

var _ request.Notifier = (*RequestNotifier)(nil)

func NewRequestNotifier(mailer core.EmailService, logger *zap.Logger) *RequestNotifier {
	return &RequestNotifier{mailer: mailer, logger: logger}
}

func (n *RequestNotifier) NotifyDecision(_ context.Context, r request.Request) {
	tmpl, ok := decisionTemplates[r.Status]
	if !ok {
		return
	}
	if r.StudentEmail == "" {
		n.logger.Debug("student has no email, skipping notification", zap.Int64("request_id", r.ID))
		return
	}

	n.mailer.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: r.StudentName, Address: r.StudentEmail}},
		Subject:      tmpl.subject,
		TemplateName: tmpl.name,
		TemplateData: map[string]interface{}{
			"StudentName":  r.StudentName,
			"ProjectTitle": r.ProjectTitle,
		},
	})
}
