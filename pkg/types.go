package pkg

import (
	"encoding/json"
	"strings"
	"time"
)

// Role is the server-assigned category of an account.  It decides which
// dashboard a page session shows and which patient collection it loads.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ParseRole maps a raw claim or form value onto a Role.  Anything that is not
// "doctor" is treated as a patient, which is also the default for an absent
// claim.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleDoctor)) {
		return RoleDoctor
	}
	return RolePatient
}

// Title returns the role name with an upper-case first letter.
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Patient is a backend-owned patient record.
type Patient struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Contact string `json:"contact,omitempty"`
}

// NewPatient is the body of an add-patient request.
type NewPatient struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Contact string `json:"contact"`
}

// Credentials is the body of signup and login requests.  Role is only sent on
// signup.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// Token is returned by a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Message is the generic `{message}` payload returned by signup, health and
// feedback endpoints.
type Message struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

// SymptomPrediction is the result of a symptom submission.
type SymptomPrediction struct {
	Prediction string `json:"prediction"`
}

// ReportAnalysis is the structured extraction of an uploaded report.  The
// structured output and analysis are free-form JSON produced by the backend.
type ReportAnalysis struct {
	LogID            int64           `json:"log_id"`
	PatientID        *int64          `json:"patient_id,omitempty"`
	RawText          string          `json:"raw_text"`
	CleanedText      string          `json:"cleaned_text"`
	StructuredOutput json.RawMessage `json:"structured_output"`
	Analysis         json.RawMessage `json:"analysis"`
}

// ReportLog is a past report analysis as listed in a report history.
type ReportLog struct {
	ID               int64           `json:"id"`
	Filename         string          `json:"filename"`
	PatientID        *int64          `json:"patient_id,omitempty"`
	CreatedAt        *string         `json:"created_at"`
	StructuredOutput json.RawMessage `json:"structured_output"`
	Analysis         json.RawMessage `json:"analysis"`
}

// PatientReports is the report history of a single patient.
type PatientReports struct {
	PatientID    int64       `json:"patient_id"`
	PatientName  string      `json:"patient_name"`
	TotalReports int         `json:"total_reports"`
	Reports      []ReportLog `json:"reports"`
}

// ReportLogs is the report history visible to the caller, newest first.
type ReportLogs struct {
	Logs []ReportLog `json:"logs"`
}

// DashboardStats aggregates report activity for the doctor dashboard.
type DashboardStats struct {
	Summary struct {
		TotalPatients            int     `json:"total_patients"`
		TotalReports             int     `json:"total_reports"`
		ReportsWithAbnormalities int     `json:"reports_with_abnormalities"`
		AbnormalityRatePercent   float64 `json:"abnormality_rate_percent"`
	} `json:"summary"`
	TopAbnormalFindings []struct {
		Finding string `json:"finding"`
		Count   int    `json:"count"`
	} `json:"top_abnormal_findings"`
	RecentActivity struct {
		Last7DaysReports int `json:"last_7_days_reports"`
	} `json:"recent_activity"`
}

// FeedbackKind names what a feedback entry corrects.
type FeedbackKind string

const (
	FeedbackSymptom FeedbackKind = "symptom"
	FeedbackReport  FeedbackKind = "report"
)

// Feedback corrects a symptom prediction or a report analysis.  Exactly one
// of the log IDs is set, matching LogType.
type Feedback struct {
	LogType            FeedbackKind `json:"log_type"`
	OriginalPrediction string       `json:"original_prediction"`
	CorrectedLabel     string       `json:"corrected_label"`
	UserComment        *string      `json:"user_comment,omitempty"`
	ReportLogID        *int64       `json:"report_log_id,omitempty"`
	SymptomLogID       *int64       `json:"symptom_log_id,omitempty"`
}

// FeedbackReceipt acknowledges a stored feedback entry.
type FeedbackReceipt struct {
	Message    string `json:"message"`
	FeedbackID int64  `json:"feedback_id"`
}

// ChatRequest is the body of a chat message.  PatientID gives the assistant
// patient context when a patient is selected.
type ChatRequest struct {
	Message   string `json:"message"`
	PatientID *int64 `json:"patient_id"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// TurnAuthor describes who wrote a chat turn.
type TurnAuthor string

const (
	AuthorUser      TurnAuthor = "user"
	AuthorAssistant TurnAuthor = "assistant"
)

// ChatTurn is one entry of the page-lifetime chat transcript.  Turns are
// never persisted or replayed.
type ChatTurn struct {
	Author TurnAuthor `json:"author"`
	Text   string     `json:"text"`
	At     time.Time  `json:"at"`
}
