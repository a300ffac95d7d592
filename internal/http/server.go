package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wellness-portal/internal/api"
	"wellness-portal/internal/core"
	"wellness-portal/internal/session"
	"wellness-portal/internal/view"
	"wellness-portal/pkg"
)

// Options tunes the HTTP surface.
type Options struct {
	MaxBodyBytes   int64
	AllowedOrigins []string
	SecureCookies  bool
}

// Server bundles together the dependencies required by HTTP handlers.  It
// implements http.Handler so it can be passed to an http.Server.
type Server struct {
	Backend  *api.Client
	Router   *core.RoleRouter
	Chat     *core.ChatService
	Sessions *session.Store
	Views    *view.Renderer

	opts   Options
	engine *gin.Engine
}

// NewServer constructs a Server and its routes.
func NewServer(backend *api.Client, sessions *session.Store, opts Options) (*Server, error) {
	views, err := view.New()
	if err != nil {
		return nil, err
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	s := &Server{
		Backend:  backend,
		Router:   core.NewRoleRouter(backend),
		Chat:     core.NewChatService(backend),
		Sessions: sessions,
		Views:    views,
		opts:     opts,
	}
	s.engine = s.routes()
	return s, nil
}

// ServeHTTP dispatches to the gin engine.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = s.opts.MaxBodyBytes
	router.Use(
		requestLogger(),
		recoverPanics(),
		limitBodySize(s.opts.MaxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins:  s.opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "HX-Request", "HX-Target", "HX-Trigger", "HX-Current-URL"},
			ExposeHeaders: []string{"HX-Retarget", "HX-Reswap"},
			MaxAge:        12 * time.Hour,
		}),
	)

	router.GET("/healthz", s.handleHealthz)
	router.GET("/", s.handleIndex)

	page := router.Group("/", s.pageSession())
	page.GET("/status", s.handleStatus)
	page.POST("/role", s.handleRole)
	page.POST("/signup", s.handleSignup)
	page.POST("/login", s.handleLogin)

	authed := page.Group("/", s.requireLogin())
	authed.POST("/symptoms", s.handleSymptoms)
	authed.POST("/reports", s.handleReport)
	authed.GET("/reports", s.handleReportLogs)
	authed.POST("/patients", s.handleAddPatient)
	authed.GET("/patients", s.handleListPatients)
	authed.POST("/patients/:id/select", s.handleSelectPatient)
	authed.GET("/patients/:id/reports", s.handlePatientReports)
	authed.POST("/chat", s.handleChat)
	authed.POST("/feedback", s.handleFeedback)
	authed.GET("/doctor/stats", s.handleDashboardStats)

	return router
}

// render buffers the output of fn and writes it as an HTML response.  A
// render failure yields a plain 500 and nothing of the partial output.
func (s *Server) render(c *gin.Context, status int, fn func(w io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		slog.Error("render failed", "path", c.FullPath(), "error", err)
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// retarget redirects the swap of an htmx response to selector.
func retarget(c *gin.Context, selector string) {
	c.Header("HX-Retarget", selector)
	c.Header("HX-Reswap", "innerHTML")
}

// alert answers with a blocking alert in the page's alert region.  The
// region the action targeted is left as it was.
func (s *Server) alert(c *gin.Context, status int, msg string) {
	retarget(c, "#alert")
	s.render(c, status, func(w io.Writer) error {
		return s.Views.RenderAlert(w, msg)
	})
}

// failed renders a backend failure into the region of the action.
func (s *Server) failed(c *gin.Context, op, prefix string, err error) {
	slog.Warn("backend call failed",
		"op", op,
		"session_id", currentSession(c).ID,
		"error", err,
	)
	s.render(c, http.StatusOK, func(w io.Writer) error {
		return s.Views.RenderError(w, prefix, err)
	})
}

// pageFor builds the view state of a session, filling the list region from
// d when it is set.
func pageFor(sess *session.Session, d *core.Dashboard) view.Page {
	p := view.Page{
		Stage:           sess.Stage(),
		ChosenRole:      sess.ChosenRole(),
		Role:            sess.Role(),
		SelectedPatient: sess.SelectedPatientRef(),
		Transcript:      view.NewChatTurns(sess.Transcript()),
	}
	if d == nil {
		return p
	}
	switch {
	case d.LoadErr != nil:
		p.ListError = view.ErrorNotice("Failed to load patients", d.LoadErr)
	case d.Role == pkg.RoleDoctor:
		p.Patients = view.NewPatientList(d.Patients, true, p.SelectedPatient)
	default:
		p.Own = view.NewOwnProfile(d.Own)
	}
	return p
}
