package api

import (
	"context"
	"net/http"

	"wellness-portal/pkg"
)

type symptomRequest struct {
	Symptoms string `json:"symptoms"`
}

// PredictSymptoms submits free-text symptoms for a prediction.
func (c *Client) PredictSymptoms(ctx context.Context, token, symptoms string) (*pkg.SymptomPrediction, error) {
	var res pkg.SymptomPrediction
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/symptoms/predict",
		token:    token,
		auth:     true,
		body:     symptomRequest{Symptoms: symptoms},
		fallback: "Prediction failed",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Chat sends a message to the assistant, optionally in the context of a
// patient.
func (c *Client) Chat(ctx context.Context, token, message string, patientID *int64) (*pkg.ChatResponse, error) {
	var res pkg.ChatResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/chat/chat",
		token:    token,
		auth:     true,
		body:     pkg.ChatRequest{Message: message, PatientID: patientID},
		fallback: "Chat failed",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
