package api

import (
	"context"
	"net/http"
	"strconv"

	"wellness-portal/pkg"
)

// AddPatient creates a patient record.  Doctors may add any patient; the
// backend lets a patient account create only its own profile.
func (c *Client) AddPatient(ctx context.Context, token string, p pkg.NewPatient) (*pkg.Patient, error) {
	var res pkg.Patient
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/cv/add_patient",
		token:    token,
		auth:     true,
		body:     p,
		fallback: "Failed to add patient",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListPatients returns the patients visible to the caller.  The backend
// scopes the list: doctors see everyone, patients see their own record.
func (c *Client) ListPatients(ctx context.Context, token string) ([]pkg.Patient, error) {
	var res []pkg.Patient
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/cv/get_patients",
		token:    token,
		auth:     true,
		fallback: "Failed to load patients",
	}, &res)
	return res, err
}

// ListAllPatients returns every patient.  Doctor accounts only.
func (c *Client) ListAllPatients(ctx context.Context, token string) ([]pkg.Patient, error) {
	var res []pkg.Patient
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/doctor/patients",
		token:    token,
		auth:     true,
		fallback: "Failed to load patients",
	}, &res)
	return res, err
}

// PatientReports returns the report history of a patient.  Doctors read it
// through the doctor surface; patients through their own, which the backend
// restricts to their profile.
func (c *Client) PatientReports(ctx context.Context, token string, patientID int64, asDoctor bool) (*pkg.PatientReports, error) {
	id := strconv.FormatInt(patientID, 10)
	path := "/cv/get_patient/" + id + "/reports"
	if asDoctor {
		path = "/doctor/patients/" + id + "/reports"
	}
	var res pkg.PatientReports
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     path,
		token:    token,
		auth:     true,
		fallback: "Failed to load reports",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DashboardStats returns aggregate report activity.  Doctor accounts only.
func (c *Client) DashboardStats(ctx context.Context, token string) (*pkg.DashboardStats, error) {
	var res pkg.DashboardStats
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/doctor/dashboard_stats",
		token:    token,
		auth:     true,
		fallback: "Failed to load dashboard stats",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
