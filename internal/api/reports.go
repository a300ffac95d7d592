package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"wellness-portal/pkg"
)

// Upload is a report file to analyze.
type Upload struct {
	Filename string
	Content  io.Reader
}

// AnalyzeReport uploads a report for text extraction and structured
// analysis.  When patientID is set the backend links the result to that
// patient.
func (c *Client) AnalyzeReport(ctx context.Context, token string, file Upload, patientID *int64) (*pkg.ReportAnalysis, error) {
	if token == "" {
		return nil, ErrNoCredential
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, fmt.Errorf("copy report: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	var params url.Values
	if patientID != nil {
		params = url.Values{"patient_id": []string{strconv.FormatInt(*patientID, 10)}}
	}

	var res pkg.ReportAnalysis
	err = c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/cv/clean_and_analyze",
		params:   params,
		token:    token,
		auth:     true,
		body:     &multipartBody{contentType: mw.FormDataContentType(), body: buf},
		fallback: "Upload failed",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// SubmitFeedback records a correction of a symptom prediction or a report
// analysis.
func (c *Client) SubmitFeedback(ctx context.Context, token string, fb pkg.Feedback) (*pkg.FeedbackReceipt, error) {
	var res pkg.FeedbackReceipt
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/cv/feedback",
		token:    token,
		auth:     true,
		body:     fb,
		fallback: "Failed to record feedback",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ReportLogs lists past report analyses.  The backend scopes the list:
// doctors see every report, patients only those linked to their profile.
func (c *Client) ReportLogs(ctx context.Context, token string) (*pkg.ReportLogs, error) {
	var res pkg.ReportLogs
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/cv/logs",
		token:    token,
		auth:     true,
		fallback: "Failed to load reports",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
