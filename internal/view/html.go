package view

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/spec-kit/helpdesk-log/internal/domain"
	"github.com/spec-kit/helpdesk-log/internal/notify"
)

//go:embed templates/dashboard.html
var dashboardTemplate string

// FormState is what the entry form shows: prior input and an inline error.
type FormState struct {
	Employee string
	Issue    string
	Action   string
	Status   string
	Error    string
}

// Document is the full dashboard input.
type Document struct {
	Title  string
	Page   Page
	Toasts []notify.Toast
	Form   FormState
}

// HTMLRenderer writes the dashboard page.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded dashboard template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render executes the template into a byte slice.
func (r *HTMLRenderer) Render(doc Document) ([]byte, error) {
	if doc.Form.Status == "" {
		doc.Form.Status = string(domain.TicketStatusPending)
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
