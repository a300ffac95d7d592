package core

import (
	"context"
	"strings"
	"time"

	"wellness-portal/internal/session"
	"wellness-portal/pkg"
)

// Assistant is the part of the API client that answers chat messages.
type Assistant interface {
	Chat(ctx context.Context, token, message string, patientID *int64) (*pkg.ChatResponse, error)
}

// ChatService relays chat messages to the backend assistant and keeps the
// page's transcript.  The transcript lives only as long as the page session.
type ChatService struct {
	Assistant Assistant
	now       func() time.Time
}

// NewChatService constructs a new ChatService with the given assistant.
func NewChatService(a Assistant) *ChatService {
	return &ChatService{Assistant: a, now: time.Now}
}

// Send posts message for the page session, in the context of its selected
// patient when there is one, and returns the two new turns.  Nothing is
// appended to the transcript when the backend call fails.
func (s *ChatService) Send(ctx context.Context, sess *session.Session, message string) ([]pkg.ChatTurn, error) {
	token, _ := sess.Token()
	resp, err := s.Assistant.Chat(ctx, token, message, sess.SelectedPatientRef())
	if err != nil {
		return nil, err
	}
	reply := strings.TrimSpace(resp.Response)
	if reply == "" {
		reply = ChatFallback
	}
	now := s.now()
	turns := []pkg.ChatTurn{
		{Author: pkg.AuthorUser, Text: message, At: now},
		{Author: pkg.AuthorAssistant, Text: reply, At: now},
	}
	sess.AppendTurns(turns...)
	return turns, nil
}
