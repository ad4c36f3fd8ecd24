package core

import (
	"bytes"
	"embed"
	"net/mail"
	"path"
	"strings"
	"sync"
	"text/template"

	"github.com/pkg/errors"
)

//go:embed templates/email/*.txt
var emailTemplatesFS embed.FS

var (
	templates    map[string]*template.Template
	templatesErr error
	tmplInit     sync.Once
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
	}

	ContextData struct {
		AppName string
		Data    interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render fills TextContent from BodyStr or from the named template.
func (m *EmailMessage) Render(appName string) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	} else if m.TemplateName == "" {
		return nil
	}

	tmplInit.Do(parseTemplates) // only execute once during first render
	if templatesErr != nil {
		return templatesErr
	}
	tmpl, ok := templates[m.TemplateName]
	if !ok {
		return errors.Errorf("unknown email template %q", m.TemplateName)
	}

	var buff bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buff, m.TemplateName+".txt", ContextData{AppName: appName, Data: m.TemplateData}); err != nil {
		return errors.Wrapf(err, "executing email template %q", m.TemplateName)
	}
	m.TextContent = strings.TrimSpace(buff.String())
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.TextContent != "" }

func parseTemplates() {
	templates = make(map[string]*template.Template)

	fps, err := emailTemplatesFS.ReadDir("templates/email")
	if err != nil {
		templatesErr = errors.Wrap(err, "reading email templates")
		return
	}
	for _, fp := range fps {
		fname := fp.Name()
		if strings.HasPrefix(fname, "_") || path.Ext(fname) != ".txt" {
			continue
		}
		tmpl, err := template.ParseFS(emailTemplatesFS, "templates/email/_base.txt", "templates/email/"+fname)
		if err != nil {
			templatesErr = errors.Wrapf(err, "parsing email template %q", fname)
			return
		}
		templates[strings.TrimSuffix(fname, ".txt")] = tmpl.Option("missingkey=error")
	}
}
