package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"wellness-portal/internal/core"
	"wellness-portal/internal/session"
	"wellness-portal/pkg"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	return r
}

func parse(t *testing.T, buf *bytes.Buffer) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(buf)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func hidden(doc *goquery.Document, id string) bool {
	_, ok := doc.Find("#" + id).Attr("hidden")
	return ok
}

func TestVisibleRegions(t *testing.T) {
	regions := []string{RegionRoleSelection, RegionAuth, RegionPatientDashboard, RegionDoctorDashboard}
	cases := []struct {
		name string
		page Page
		want string
	}{
		{"fresh page", Page{Stage: session.StageUnauthenticated}, RegionRoleSelection},
		{"role chosen", Page{Stage: session.StageRoleChosen, ChosenRole: pkg.RoleDoctor}, RegionAuth},
		{"patient", Page{Stage: session.StageAuthenticated, Role: pkg.RolePatient}, RegionPatientDashboard},
		{"doctor", Page{Stage: session.StageAuthenticated, Role: pkg.RoleDoctor}, RegionDoctorDashboard},
		{"no role defaults to patient", Page{Stage: session.StageAuthenticated}, RegionPatientDashboard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, region := range regions {
				if got := tc.page.Visible(region); got != (region == tc.want) {
					t.Fatalf("region %s: visible=%v", region, got)
				}
			}
		})
	}
}

func TestRenderPageShowsOnlyRoleSelection(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	if err := r.RenderPage(&buf, Page{Stage: session.StageUnauthenticated}); err != nil {
		t.Fatal(err)
	}
	doc := parse(t, &buf)
	if hidden(doc, RegionRoleSelection) {
		t.Fatal("role selection must be visible")
	}
	for _, id := range []string{RegionAuth, RegionPatientDashboard, RegionDoctorDashboard} {
		if !hidden(doc, id) {
			t.Fatalf("region %s must be hidden", id)
		}
	}
	if doc.Find("#status-message").Length() != 1 {
		t.Fatal("expected status line")
	}
}

func TestRenderShellAuthCarriesRole(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	if err := r.RenderShell(&buf, Page{Stage: session.StageRoleChosen, ChosenRole: pkg.RoleDoctor}); err != nil {
		t.Fatal(err)
	}
	doc := parse(t, &buf)
	if got := strings.TrimSpace(doc.Find("#role-display").Text()); got != "Selected Role: Doctor" {
		t.Fatalf("unexpected role display %q", got)
	}
	if v, _ := doc.Find("#signup-form input[name=role]").Attr("value"); v != "doctor" {
		t.Fatalf("signup form not pre-filled with role, got %q", v)
	}
}

func TestRenderShellDoctorDashboard(t *testing.T) {
	r := newRenderer(t)
	sel := int64(2)
	page := Page{
		Stage:           session.StageAuthenticated,
		Role:            pkg.RoleDoctor,
		Patients:        NewPatientList([]pkg.Patient{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bo"}}, true, &sel),
		SelectedPatient: &sel,
		Transcript:      NewChatTurns([]pkg.ChatTurn{{Author: pkg.AuthorUser, Text: "hi"}}),
	}
	var buf bytes.Buffer
	if err := r.RenderShell(&buf, page); err != nil {
		t.Fatal(err)
	}
	doc := parse(t, &buf)
	if hidden(doc, RegionDoctorDashboard) || !hidden(doc, RegionPatientDashboard) {
		t.Fatal("expected only the doctor dashboard visible")
	}
	if n := doc.Find("#doctor-dashboard .patient-card").Length(); n != 2 {
		t.Fatalf("expected 2 cards, got %d", n)
	}
	if n := doc.Find(".select-patient").Length(); n != 2 {
		t.Fatalf("expected select actions, got %d", n)
	}
	if id, _ := doc.Find(".patient-card.selected").Attr("data-patient-id"); id != "2" {
		t.Fatalf("expected patient 2 selected, got %q", id)
	}
	if doc.Find("#chat-messages .turn.user").Length() != 1 {
		t.Fatal("expected transcript to be rendered")
	}
}

func TestRenderPatientListEmpty(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	if err := r.RenderPatientList(&buf, NewPatientList(nil, true, nil)); err != nil {
		t.Fatal(err)
	}
	doc := parse(t, &buf)
	if got := strings.TrimSpace(doc.Find(".empty").Text()); got != core.EmptyPatients {
		t.Fatalf("unexpected empty state %q", got)
	}
	if doc.Find(".patient-card").Length() != 0 {
		t.Fatal("expected no cards")
	}
}

func TestRenderPatientListEscapesRecords(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	patients := []pkg.Patient{{ID: 1, Name: `<script>alert("x")</script>`, Gender: `<b>F</b>`}}
	if err := r.RenderPatientList(&buf, NewPatientList(patients, false, nil)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>") || strings.Contains(out, "<b>") {
		t.Fatalf("record markup not escaped: %s", out)
	}
	doc := parse(t, bytes.NewBufferString(out))
	if got := doc.Find(".patient-name").Text(); got != `<script>alert("x")</script>` {
		t.Fatalf("name not shown as text, got %q", got)
	}
	if doc.Find(".select-patient").Length() != 0 {
		t.Fatal("non-selectable list must not offer selection")
	}
}

func TestRenderOwnProfile(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	if err := r.RenderOwnProfile(&buf, NewOwnProfile(nil)); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(parse(t, &buf).Find(".empty").Text()); got != core.EmptyOwnProfile {
		t.Fatalf("unexpected empty profile %q", got)
	}

	buf.Reset()
	if err := r.RenderOwnProfile(&buf, NewOwnProfile(&pkg.Patient{ID: 7, Name: "Me", Age: 30, Contact: "555"})); err != nil {
		t.Fatal(err)
	}
	doc := parse(t, &buf)
	if doc.Find(".patient-name").Text() != "Me" || !strings.Contains(doc.Find(".patient-contact").Text(), "555") {
		t.Fatalf("unexpected profile %s", buf.String())
	}
}

func TestRenderReportResultPrettyPrints(t *testing.T) {
	r := newRenderer(t)
	id := int64(4)
	res := &pkg.ReportAnalysis{
		LogID:            11,
		PatientID:        &id,
		StructuredOutput: json.RawMessage(`{"hemoglobin":12}`),
		Analysis:         json.RawMessage(`"[{\"type\":\"anemia\"}]"`),
	}
	var buf bytes.Buffer
	if err := r.RenderReportResult(&buf, res); err != nil {
		t.Fatal(err)
	}
	doc := parse(t, &buf)
	if got := doc.Find(".structured-output").Text(); got != "{\n  \"hemoglobin\": 12\n}" {
		t.Fatalf("unexpected structured output %q", got)
	}
	if got := doc.Find(".analysis").Text(); !strings.Contains(got, "\"type\": \"anemia\"") {
		t.Fatalf("string-encoded analysis not unwrapped: %q", got)
	}
	if !strings.Contains(doc.Find(".linked-patient").Text(), "4") {
		t.Fatal("expected linked patient")
	}
	if v, _ := doc.Find(".feedback-form input[name=log_id]").Attr("value"); v != "11" {
		t.Fatalf("feedback form not bound to log, got %q", v)
	}
}

func TestPrettyJSON(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{``, "null"},
		{`null`, "null"},
		{`[1]`, "[\n  1\n]"},
		{`"plain text"`, "plain text"},
		{`"{\"a\":1}"`, "{\n  \"a\": 1\n}"},
	}
	for _, tc := range cases {
		if got := prettyJSON(json.RawMessage(tc.in)); got != tc.want {
			t.Fatalf("prettyJSON(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderChatTurnsLabels(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	turns := []pkg.ChatTurn{
		{Author: pkg.AuthorUser, Text: "<i>hi</i>"},
		{Author: pkg.AuthorAssistant, Text: "hello"},
	}
	if err := r.RenderChatTurns(&buf, turns); err != nil {
		t.Fatal(err)
	}
	doc := parse(t, &buf)
	if got := doc.Find(".turn.user").Text(); got != "You: <i>hi</i>" {
		t.Fatalf("unexpected user turn %q", got)
	}
	if got := doc.Find(".turn.assistant").Text(); got != "AI Assistant: hello" {
		t.Fatalf("unexpected assistant turn %q", got)
	}
}

func TestRenderErrorAndAlert(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	if err := r.RenderError(&buf, "Error", errors.New("Invalid credentials")); err != nil {
		t.Fatal(err)
	}
	if got := parse(t, &buf).Find("p.error").Text(); got != "Error: Invalid credentials" {
		t.Fatalf("unexpected error line %q", got)
	}

	buf.Reset()
	if err := r.RenderAlert(&buf, core.PromptLoginFirst); err != nil {
		t.Fatal(err)
	}
	if got := parse(t, &buf).Find("[role=alert]").Text(); got != core.PromptLoginFirst {
		t.Fatalf("unexpected alert %q", got)
	}
}

func TestRenderDashboardStats(t *testing.T) {
	r := newRenderer(t)
	var stats pkg.DashboardStats
	raw := `{"summary":{"total_patients":3,"total_reports":5,"reports_with_abnormalities":2,"abnormality_rate_percent":40},
		"top_abnormal_findings":[{"finding":"anemia","count":2}],"recent_activity":{"last_7_days_reports":1}}`
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := r.RenderDashboardStats(&buf, &stats); err != nil {
		t.Fatal(err)
	}
	doc := parse(t, &buf)
	if doc.Find(".total-patients").Text() != "3" || doc.Find(".top-findings li").Length() != 1 {
		t.Fatalf("unexpected stats %s", buf.String())
	}
}

func TestRenderPatientReportsEmpty(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	if err := r.RenderPatientReports(&buf, &pkg.PatientReports{PatientID: 3, PatientName: "Bo"}); err != nil {
		t.Fatal(err)
	}
	doc := parse(t, &buf)
	if doc.Find(".report-log").Length() != 0 || doc.Find(".empty").Length() != 1 {
		t.Fatalf("expected empty history, got %s", buf.String())
	}
}

func TestRenderReportLogs(t *testing.T) {
	r := newRenderer(t)
	patient := int64(4)
	var buf bytes.Buffer
	err := r.RenderReportLogs(&buf, &pkg.ReportLogs{Logs: []pkg.ReportLog{
		{ID: 9, Filename: "<cbc>.pdf", PatientID: &patient, StructuredOutput: json.RawMessage(`{"hb":12}`)},
		{ID: 8, Filename: "old.txt"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	doc := parse(t, &buf)
	if doc.Find(".report-log").Length() != 2 {
		t.Fatalf("expected two logs, got %s", buf.String())
	}
	if got := doc.Find(".report-log strong").First().Text(); got != "<cbc>.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := doc.Find(".log-patient").Text(); got != "Patient 4" {
		t.Fatalf("unexpected patient link %q", got)
	}
	if !strings.Contains(doc.Find(".structured-output").First().Text(), `"hb": 12`) {
		t.Fatalf("expected pretty-printed output, got %s", buf.String())
	}

	buf.Reset()
	if err := r.RenderReportLogs(&buf, &pkg.ReportLogs{}); err != nil {
		t.Fatal(err)
	}
	if parse(t, &buf).Find("p.empty").Text() != "No reports found." {
		t.Fatalf("expected empty history, got %s", buf.String())
	}
}
