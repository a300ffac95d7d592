package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"wellness-portal/internal/api"
	"wellness-portal/internal/core"
	"wellness-portal/internal/session"
	"wellness-portal/internal/view"
	"wellness-portal/pkg"
)

// handleHealthz reports portal liveness.  It does not touch the backend.
func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.Sessions.Len()})
}

// handleIndex renders a fresh page: a new page session showing only the role
// selection.
func (s *Server) handleIndex(c *gin.Context) {
	sess := s.startSession(c)
	slog.Debug("page session started", "session_id", sess.ID)
	c.Header("Cache-Control", "no-store")
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderPage(w, pageFor(sess, nil))
	})
}

// handleStatus renders the backend health line.
func (s *Server) handleStatus(c *gin.Context) {
	res, err := s.Backend.Health(c.Request.Context())
	if err != nil {
		slog.Warn("backend health check failed", "error", err)
		s.render(c, http.StatusOK, func(w io.Writer) error {
			return s.Views.RenderStatus(w, core.StatusUnreachable, false)
		})
		return
	}
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderStatus(w, fmt.Sprintf(core.StatusConnected, res.Message), true)
	})
}

// handleRole records the role picked on the role selection screen and shows
// the auth form.  A page that is already logged in keeps its dashboard.
func (s *Server) handleRole(c *gin.Context) {
	var form roleForm
	if err := decodeForm(c.Request, &form); err != nil {
		s.alert(c, http.StatusUnprocessableEntity, promptOf(err))
		return
	}
	sess := currentSession(c)
	var d *core.Dashboard
	if sess.Stage() == session.StageAuthenticated {
		d = s.Router.Load(c.Request.Context(), sess)
	} else {
		sess.ChooseRole(pkg.ParseRole(form.Role))
	}
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderShell(w, pageFor(sess, d))
	})
}

// handleSignup creates an account.  It never logs in.
func (s *Server) handleSignup(c *gin.Context) {
	var form credentialsForm
	if err := decodeForm(c.Request, &form); err != nil {
		s.alert(c, http.StatusUnprocessableEntity, promptOf(err))
		return
	}
	sess := currentSession(c)
	role := sess.ChosenRole()
	if form.Role != "" {
		role = pkg.ParseRole(form.Role)
	}
	if role == "" {
		role = pkg.RolePatient
	}

	if _, err := s.Backend.Signup(c.Request.Context(), form.Email, form.Password, role); err != nil {
		s.failed(c, "signup", "", err)
		return
	}
	slog.Info("account created", "session_id", sess.ID, "role", role)
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderNotice(w, core.NoticeAccountCreated)
	})
}

// handleLogin exchanges credentials for a token, routes the page by the
// token's role and renders the matching dashboard.  Failures stay in the
// auth result line.  A page logs in at most once.
func (s *Server) handleLogin(c *gin.Context) {
	var form credentialsForm
	if err := decodeForm(c.Request, &form); err != nil {
		s.alert(c, http.StatusUnprocessableEntity, promptOf(err))
		return
	}
	sess := currentSession(c)
	if sess.Stage() == session.StageAuthenticated {
		s.alert(c, http.StatusConflict, core.PromptAlreadyLoggedIn)
		return
	}
	ctx := c.Request.Context()

	tok, err := s.Backend.Login(ctx, form.Email, form.Password)
	if err != nil {
		retarget(c, "#auth-result")
		s.failed(c, "login", "Login error", err)
		return
	}

	chosen := sess.ChosenRole()
	if form.Role != "" {
		chosen = pkg.ParseRole(form.Role)
	}
	d, err := s.Router.Route(ctx, sess, tok.AccessToken, chosen)
	if err != nil {
		retarget(c, "#auth-result")
		s.failed(c, "login", "Login error", err)
		return
	}
	slog.Info("page session authenticated", "session_id", sess.ID, "role", d.Role)

	page := pageFor(sess, d)
	page.AuthResult = &view.Notice{Kind: view.KindSuccess, Text: fmt.Sprintf(core.NoticeLoggedIn, d.Role)}
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderShell(w, page)
	})
}

// handleSymptoms submits free-text symptoms for a prediction.
func (s *Server) handleSymptoms(c *gin.Context) {
	var form symptomForm
	if err := decodeForm(c.Request, &form); err != nil {
		s.alert(c, http.StatusUnprocessableEntity, promptOf(err))
		return
	}
	res, err := s.Backend.PredictSymptoms(c.Request.Context(), currentToken(c), form.Symptoms)
	if err != nil {
		s.failed(c, "predict symptoms", "Error", err)
		return
	}
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderSymptomResult(w, res)
	})
}

// handleReport uploads a report for analysis, linked to the selected
// patient when there is one.
func (s *Server) handleReport(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || c.Request.ContentLength > s.opts.MaxBodyBytes {
			s.alert(c, http.StatusRequestEntityTooLarge, core.PromptFileTooLarge)
			return
		}
		s.alert(c, http.StatusUnprocessableEntity, core.PromptSelectFile)
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.alert(c, http.StatusUnprocessableEntity, core.PromptSelectFile)
		return
	}
	defer f.Close()

	sess := currentSession(c)
	upload := api.Upload{Filename: fh.Filename, Content: f}
	res, err := s.Backend.AnalyzeReport(c.Request.Context(), currentToken(c), upload, sess.SelectedPatientRef())
	if err != nil {
		s.failed(c, "analyze report", "Error", err)
		return
	}
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderReportResult(w, res)
	})
}

// handleAddPatient creates a patient record and refreshes the list region.
func (s *Server) handleAddPatient(c *gin.Context) {
	var form patientForm
	if err := decodeForm(c.Request, &form); err != nil {
		s.alert(c, http.StatusUnprocessableEntity, promptOf(err))
		return
	}
	ctx := c.Request.Context()
	created, err := s.Backend.AddPatient(ctx, currentToken(c), form.patient())
	if err != nil {
		s.failed(c, "add patient", "Error", err)
		return
	}

	sess := currentSession(c)
	page := pageFor(sess, s.Router.Load(ctx, sess))
	s.render(c, http.StatusOK, func(w io.Writer) error {
		if err := s.Views.RenderNotice(w, fmt.Sprintf(core.NoticePatientAdded, created.Name, created.ID)); err != nil {
			return err
		}
		return s.Views.RenderListRegionOOB(w, page)
	})
}

// handleListPatients reloads the role-scoped list region.
func (s *Server) handleListPatients(c *gin.Context) {
	sess := currentSession(c)
	page := pageFor(sess, s.Router.Load(c.Request.Context(), sess))
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderListRegion(w, page)
	})
}

// handleSelectPatient marks a patient as the target of later report uploads
// and chat messages.
func (s *Server) handleSelectPatient(c *gin.Context) {
	sess := currentSession(c)
	if sess.Role() != pkg.RoleDoctor {
		s.alert(c, http.StatusForbidden, core.PromptDoctorOnly)
		return
	}
	id, ok := positiveInt(c.Param("id"))
	if !ok {
		s.alert(c, http.StatusBadRequest, core.PromptInvalidPatient)
		return
	}
	sess.SetSelectedPatient(id)
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderSelectedPatient(w, id)
	})
}

// handlePatientReports renders the report history of a patient.
func (s *Server) handlePatientReports(c *gin.Context) {
	id, ok := positiveInt(c.Param("id"))
	if !ok {
		s.alert(c, http.StatusBadRequest, core.PromptInvalidPatient)
		return
	}
	asDoctor := currentSession(c).Role() == pkg.RoleDoctor
	res, err := s.Backend.PatientReports(c.Request.Context(), currentToken(c), id, asDoctor)
	if err != nil {
		s.failed(c, "patient reports", "Error", err)
		return
	}
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderPatientReports(w, res)
	})
}

// handleReportLogs renders the caller's report history: every report for a
// doctor, the caller's own for a patient.
func (s *Server) handleReportLogs(c *gin.Context) {
	logs, err := s.Backend.ReportLogs(c.Request.Context(), currentToken(c))
	if err != nil {
		s.failed(c, "report logs", "Error", err)
		return
	}
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderReportLogs(w, logs)
	})
}

// handleDashboardStats renders the doctor dashboard statistics.
func (s *Server) handleDashboardStats(c *gin.Context) {
	if currentSession(c).Role() != pkg.RoleDoctor {
		s.alert(c, http.StatusForbidden, core.PromptDoctorOnly)
		return
	}
	res, err := s.Backend.DashboardStats(c.Request.Context(), currentToken(c))
	if err != nil {
		s.failed(c, "dashboard stats", "Error", err)
		return
	}
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderDashboardStats(w, res)
	})
}

// handleChat relays a chat message and appends both turns to the
// transcript.  A failure is appended as an error line instead.
func (s *Server) handleChat(c *gin.Context) {
	var form chatForm
	if err := decodeForm(c.Request, &form); err != nil {
		s.alert(c, http.StatusUnprocessableEntity, promptOf(err))
		return
	}
	turns, err := s.Chat.Send(c.Request.Context(), currentSession(c), form.Message)
	if err != nil {
		s.failed(c, "chat", "Error", err)
		return
	}
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderChatTurns(w, turns)
	})
}

// handleFeedback submits a correction of a symptom prediction or report
// analysis.
func (s *Server) handleFeedback(c *gin.Context) {
	var form feedbackForm
	if err := decodeForm(c.Request, &form); err != nil {
		s.alert(c, http.StatusUnprocessableEntity, promptOf(err))
		return
	}
	res, err := s.Backend.SubmitFeedback(c.Request.Context(), currentToken(c), form.feedback())
	if err != nil {
		s.failed(c, "feedback", "Error", err)
		return
	}
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderNotice(w, fmt.Sprintf(core.NoticeFeedbackSent, res.FeedbackID))
	})
}
