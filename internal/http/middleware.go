package http

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"wellness-portal/internal/core"
	"wellness-portal/internal/session"
)

const (
	sessionCookie = "portal_session"
	sessionKey    = "page_session"
	tokenKey      = "bearer_token"
)

// requestLogger logs every request once it has been handled.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(c.Request.Context(), level, "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// recoverPanics turns a handler panic into a 500 and logs the stack.
func recoverPanics() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic recovered in handler",
					"panic", r,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// limitBodySize caps every request body at maxBytes.  Reads past the cap
// fail with *http.MaxBytesError, which the upload handler turns into an
// alert.
func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// pageSession resolves the page session named by the request cookie.  A
// request for a session that no longer exists is answered with an alert
// asking for a reload; it never falls back to a fresh session.
func (s *Server) pageSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil {
			s.alert(c, http.StatusUnauthorized, core.PromptSessionExpired)
			c.Abort()
			return
		}
		sess, err := s.Sessions.Get(id)
		if err != nil {
			s.alert(c, http.StatusUnauthorized, core.PromptSessionExpired)
			c.Abort()
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// requireLogin stops authenticated actions of a page that holds no
// credential before any backend call is made.
func (s *Server) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := currentSession(c).Token()
		if !ok {
			s.alert(c, http.StatusUnauthorized, core.PromptLoginFirst)
			c.Abort()
			return
		}
		c.Set(tokenKey, token)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func currentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// startSession mints the page session of a full page load and drops the one
// the browser held before, so a reload never restores a login.
func (s *Server) startSession(c *gin.Context) *session.Session {
	if old, err := c.Cookie(sessionCookie); err == nil {
		s.Sessions.Discard(old)
	}
	sess := s.Sessions.New()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, sess.ID, 0, "/", "", s.opts.SecureCookies, true)
	return sess
}
