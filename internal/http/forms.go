package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"wellness-portal/internal/core"
	"wellness-portal/pkg"
)

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// errInvalidForm carries the alert to show for a form that failed local
// validation.
type errInvalidForm struct {
	prompt string
}

func (e *errInvalidForm) Error() string {
	return e.prompt
}

func invalid(prompt string) error {
	return &errInvalidForm{prompt: prompt}
}

// promptOf returns the alert text of a validation error.
func promptOf(err error) string {
	var fe *errInvalidForm
	if errors.As(err, &fe) {
		return fe.prompt
	}
	return core.PromptFillRequired
}

// decodeForm decodes the request form into dst and validates it.
func decodeForm(r *http.Request, dst interface{ normalize() error }) error {
	if err := r.ParseForm(); err != nil {
		return invalid(core.PromptFillRequired)
	}
	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return invalid(core.PromptFillRequired)
	}
	return dst.normalize()
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func present(fields ...string) bool {
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}

// positiveInt parses a whole number greater than zero.
func positiveInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

type roleForm struct {
	Role string `schema:"role"`
}

func (f *roleForm) normalize() error {
	trim(&f.Role)
	if !present(f.Role) {
		return invalid(core.PromptFillRequired)
	}
	return nil
}

type credentialsForm struct {
	Email    string `schema:"email"`
	Password string `schema:"password"`
	Role     string `schema:"role"`
}

func (f *credentialsForm) normalize() error {
	trim(&f.Email, &f.Role)
	if !present(f.Email, f.Password) {
		return invalid(core.PromptFillRequired)
	}
	return nil
}

type symptomForm struct {
	Symptoms string `schema:"symptoms"`
}

func (f *symptomForm) normalize() error {
	trim(&f.Symptoms)
	if !present(f.Symptoms) {
		return invalid(core.PromptFillRequired)
	}
	return nil
}

type patientForm struct {
	Name    string `schema:"name"`
	Age     string `schema:"age"`
	Gender  string `schema:"gender"`
	Contact string `schema:"contact"`

	age int `schema:"-"`
}

func (f *patientForm) normalize() error {
	trim(&f.Name, &f.Age, &f.Gender, &f.Contact)
	if !present(f.Name, f.Age, f.Gender) {
		return invalid(core.PromptFillRequired)
	}
	n, ok := positiveInt(f.Age)
	if !ok || n > 200 {
		return invalid(core.PromptAgeNumeric)
	}
	f.age = int(n)
	return nil
}

func (f *patientForm) patient() pkg.NewPatient {
	return pkg.NewPatient{Name: f.Name, Age: f.age, Gender: f.Gender, Contact: f.Contact}
}

type chatForm struct {
	Message string `schema:"message"`
}

func (f *chatForm) normalize() error {
	trim(&f.Message)
	if !present(f.Message) {
		return invalid(core.PromptFillRequired)
	}
	return nil
}

type feedbackForm struct {
	LogType            string `schema:"log_type"`
	LogID              string `schema:"log_id"`
	OriginalPrediction string `schema:"original_prediction"`
	CorrectedLabel     string `schema:"corrected_label"`
	Comment            string `schema:"comment"`

	logID int64 `schema:"-"`
}

func (f *feedbackForm) normalize() error {
	trim(&f.LogType, &f.LogID, &f.OriginalPrediction, &f.CorrectedLabel, &f.Comment)
	if !present(f.LogType, f.LogID, f.CorrectedLabel) {
		return invalid(core.PromptFillRequired)
	}
	kind := pkg.FeedbackKind(f.LogType)
	if kind != pkg.FeedbackSymptom && kind != pkg.FeedbackReport {
		return invalid(core.PromptFeedbackTarget)
	}
	id, ok := positiveInt(f.LogID)
	if !ok {
		return invalid(core.PromptFeedbackTarget)
	}
	f.logID = id
	return nil
}

func (f *feedbackForm) feedback() pkg.Feedback {
	fb := pkg.Feedback{
		LogType:            pkg.FeedbackKind(f.LogType),
		OriginalPrediction: f.OriginalPrediction,
		CorrectedLabel:     f.CorrectedLabel,
	}
	if f.Comment != "" {
		comment := f.Comment
		fb.UserComment = &comment
	}
	id := f.logID
	if fb.LogType == pkg.FeedbackReport {
		fb.ReportLogID = &id
	} else {
		fb.SymptomLogID = &id
	}
	return fb
}
