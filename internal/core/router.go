package core

import (
	"context"
	"log/slog"

	"wellness-portal/internal/session"
	"wellness-portal/pkg"
)

// PatientSource is the part of the API client the role router loads
// dashboard data from.
type PatientSource interface {
	ListPatients(ctx context.Context, token string) ([]pkg.Patient, error)
	ListAllPatients(ctx context.Context, token string) ([]pkg.Patient, error)
}

// Dashboard is the data a freshly routed page shows.  For doctors Patients
// holds the full collection; for patients Own holds the first record the
// backend returned for the caller, if any.
type Dashboard struct {
	Role     pkg.Role
	Patients []pkg.Patient
	Own      *pkg.Patient
	// LoadErr is set when the data load failed.  The login itself still
	// succeeded and the dashboard is shown with an error in its list region.
	LoadErr error
}

// RoleRouter turns a newly acquired token into the dashboard of its role.
type RoleRouter struct {
	Patients PatientSource
}

// NewRoleRouter constructs a RoleRouter.
func NewRoleRouter(src PatientSource) *RoleRouter {
	return &RoleRouter{Patients: src}
}

// Route decodes the role from token, authenticates the page session with it
// and loads the matching dashboard data.  The role picked in the UI is only
// compared for logging; the token's claim decides.  A token that cannot be
// decoded fails the login and leaves the session untouched.
func (r *RoleRouter) Route(ctx context.Context, sess *session.Session, token string, chosen pkg.Role) (*Dashboard, error) {
	role, err := RoleFromToken(token)
	if err != nil {
		return nil, err
	}
	if chosen != "" && chosen != role {
		slog.Warn("selected role differs from token role; using token role",
			"session_id", sess.ID,
			"selected", chosen,
			"token_role", role,
		)
	}
	sess.Authenticate(token, role)
	return r.Load(ctx, sess), nil
}

// Load fetches the dashboard data for an authenticated page session.
func (r *RoleRouter) Load(ctx context.Context, sess *session.Session) *Dashboard {
	role := sess.Role()
	d := &Dashboard{Role: role}
	token, ok := sess.Token()
	if !ok {
		return d
	}

	if role == pkg.RoleDoctor {
		d.Patients, d.LoadErr = r.Patients.ListAllPatients(ctx, token)
		if d.LoadErr != nil {
			slog.Warn("load all patients failed", "session_id", sess.ID, "error", d.LoadErr)
		}
		return d
	}

	patients, err := r.Patients.ListPatients(ctx, token)
	if err != nil {
		slog.Warn("load own patient failed", "session_id", sess.ID, "error", err)
		d.LoadErr = err
		return d
	}
	if len(patients) > 0 {
		own := patients[0]
		d.Own = &own
	}
	return d
}
