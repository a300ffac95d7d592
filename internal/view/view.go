// Package view renders the portal's markup.  Every backend-controlled value
// is bound through html/template view models, never spliced into HTML
// strings, so record contents cannot inject markup.
package view

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"wellness-portal/internal/core"
	"wellness-portal/internal/session"
	"wellness-portal/pkg"
)

//go:embed templates/*.html
var templateFS embed.FS

// Named view regions.  Exactly one of them is visible at a time.
const (
	RegionRoleSelection    = "role-selection"
	RegionAuth             = "auth-box"
	RegionPatientDashboard = "patient-dashboard"
	RegionDoctorDashboard  = "doctor-dashboard"
)

// Notice kinds.
const (
	KindSuccess = "success"
	KindError   = "error"
	KindAlert   = "alert"
)

// Notice is a single status line.
type Notice struct {
	Kind string
	Text string
}

// PatientCard is the view model of one patient record.
type PatientCard struct {
	ID         int64
	Name       string
	Age        int
	Gender     string
	Contact    string
	Selectable bool
	Selected   bool
}

// PatientList is the view model of a patient collection.  Empty is shown
// instead of an empty container.
type PatientList struct {
	Cards []PatientCard
	Empty string
}

// OwnProfile is the view model of a patient's own record.
type OwnProfile struct {
	Card  *PatientCard
	Empty string
}

// ChatTurn is the view model of a transcript entry.
type ChatTurn struct {
	Label string
	Class string
	Text  string
}

// Page is the state of the four view regions for one page session.
type Page struct {
	Stage           session.Stage
	ChosenRole      pkg.Role
	Role            pkg.Role
	AuthResult      *Notice
	Patients        *PatientList
	Own             *OwnProfile
	ListError       *Notice
	SelectedPatient *int64
	Transcript      []ChatTurn
}

// Visible reports whether region is shown for the page's stage and role.
func (p Page) Visible(region string) bool {
	switch p.Stage {
	case session.StageUnauthenticated:
		return region == RegionRoleSelection
	case session.StageRoleChosen:
		return region == RegionAuth
	case session.StageAuthenticated:
		if p.Role == pkg.RoleDoctor {
			return region == RegionDoctorDashboard
		}
		return region == RegionPatientDashboard
	}
	return false
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("view").Funcs(template.FuncMap{
		"json": prettyJSON,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) render(w io.Writer, name string, data interface{}) error {
	// Render into a buffer first so a failing template never leaves a
	// half-written region behind.
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderPage writes the full document for a freshly loaded page.
func (r *Renderer) RenderPage(w io.Writer, p Page) error {
	return r.render(w, "page", p)
}

// RenderShell writes the four view regions for the page's current stage.
func (r *Renderer) RenderShell(w io.Writer, p Page) error {
	return r.render(w, "shell", p)
}

// RenderPatientList writes a patient collection, or its empty-state message.
func (r *Renderer) RenderPatientList(w io.Writer, l *PatientList) error {
	return r.render(w, "patient-list", l)
}

// RenderListRegion writes the role-scoped list region of a dashboard: the
// full collection for doctors, the own record for patients, or the load
// error.
func (r *Renderer) RenderListRegion(w io.Writer, p Page) error {
	return r.render(w, "list-region", p)
}

// RenderListRegionOOB writes the list region as an out-of-band swap, for
// responses whose main target is another region.
func (r *Renderer) RenderListRegionOOB(w io.Writer, p Page) error {
	return r.render(w, "list-region-oob", p)
}

// RenderOwnProfile writes a patient's own record.
func (r *Renderer) RenderOwnProfile(w io.Writer, o *OwnProfile) error {
	return r.render(w, "own-profile", o)
}

// RenderReportResult writes the analysis of an uploaded report.
func (r *Renderer) RenderReportResult(w io.Writer, res *pkg.ReportAnalysis) error {
	return r.render(w, "report-result", res)
}

// RenderSymptomResult writes a symptom prediction.
func (r *Renderer) RenderSymptomResult(w io.Writer, res *pkg.SymptomPrediction) error {
	return r.render(w, "symptom-result", res)
}

// RenderChatTurns writes turns to be appended to the transcript.
func (r *Renderer) RenderChatTurns(w io.Writer, turns []pkg.ChatTurn) error {
	return r.render(w, "chat-turns", NewChatTurns(turns))
}

// RenderPatientReports writes the report history of a patient.
func (r *Renderer) RenderPatientReports(w io.Writer, res *pkg.PatientReports) error {
	return r.render(w, "patient-reports", res)
}

// RenderReportLogs writes the caller's report history.
func (r *Renderer) RenderReportLogs(w io.Writer, res *pkg.ReportLogs) error {
	return r.render(w, "report-logs", res)
}

// RenderDashboardStats writes the doctor dashboard statistics.
func (r *Renderer) RenderDashboardStats(w io.Writer, res *pkg.DashboardStats) error {
	return r.render(w, "dashboard-stats", res)
}

// RenderSelectedPatient writes the active report and chat target.
func (r *Renderer) RenderSelectedPatient(w io.Writer, id int64) error {
	return r.render(w, "selected-patient", id)
}

// RenderNotice writes a success line.
func (r *Renderer) RenderNotice(w io.Writer, text string) error {
	return r.render(w, "notice", &Notice{Kind: KindSuccess, Text: text})
}

// RenderError writes a visibly marked error line.
func (r *Renderer) RenderError(w io.Writer, prefix string, err error) error {
	return r.render(w, "notice", ErrorNotice(prefix, err))
}

// RenderAlert writes a blocking alert for a local validation failure.
func (r *Renderer) RenderAlert(w io.Writer, text string) error {
	return r.render(w, "alert", &Notice{Kind: KindAlert, Text: text})
}

// RenderStatus writes the backend health line.
func (r *Renderer) RenderStatus(w io.Writer, text string, ok bool) error {
	return r.render(w, "status", struct {
		Text string
		OK   bool
	}{text, ok})
}

// ErrorNotice builds an error line, prefixed when prefix is set.
func ErrorNotice(prefix string, err error) *Notice {
	text := err.Error()
	if prefix != "" {
		text = prefix + ": " + text
	}
	return &Notice{Kind: KindError, Text: text}
}

// NewPatientCard builds the view model of a record.
func NewPatientCard(p pkg.Patient, selectable bool, selected *int64) PatientCard {
	return PatientCard{
		ID:         p.ID,
		Name:       p.Name,
		Age:        p.Age,
		Gender:     p.Gender,
		Contact:    strings.TrimSpace(p.Contact),
		Selectable: selectable,
		Selected:   selected != nil && *selected == p.ID,
	}
}

// NewPatientList builds the view model of a collection.  Selectable cards
// carry the action that marks them as the active report target.
func NewPatientList(patients []pkg.Patient, selectable bool, selected *int64) *PatientList {
	l := &PatientList{}
	if len(patients) == 0 {
		l.Empty = core.EmptyPatients
		return l
	}
	l.Cards = make([]PatientCard, 0, len(patients))
	for _, p := range patients {
		l.Cards = append(l.Cards, NewPatientCard(p, selectable, selected))
	}
	return l
}

// NewOwnProfile builds the view model of a patient's own record.
func NewOwnProfile(p *pkg.Patient) *OwnProfile {
	if p == nil {
		return &OwnProfile{Empty: core.EmptyOwnProfile}
	}
	card := NewPatientCard(*p, false, nil)
	return &OwnProfile{Card: &card}
}

// NewChatTurns builds the view models of transcript entries.
func NewChatTurns(turns []pkg.ChatTurn) []ChatTurn {
	out := make([]ChatTurn, 0, len(turns))
	for _, t := range turns {
		v := ChatTurn{Label: "You", Class: "turn user", Text: t.Text}
		if t.Author == pkg.AuthorAssistant {
			v.Label = "AI Assistant"
			v.Class = "turn assistant"
		}
		out = append(out, v)
	}
	return out
}

// prettyJSON indents backend JSON for display.  Some endpoints store the
// structured output as a JSON-encoded string; those are unwrapped first.
func prettyJSON(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "null"
	}
	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		inner := []byte(strings.TrimSpace(s))
		if json.Valid(inner) {
			raw = inner
		} else {
			return s
		}
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}
