package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"wellness-portal/internal/session"
	"wellness-portal/pkg"
)

type fakeAssistant struct {
	reply     string
	err       error
	patientID *int64
	token     string
}

func (f *fakeAssistant) Chat(ctx context.Context, token, message string, patientID *int64) (*pkg.ChatResponse, error) {
	f.token = token
	f.patientID = patientID
	if f.err != nil {
		return nil, f.err
	}
	return &pkg.ChatResponse{Response: f.reply}, nil
}

func TestChatSendAppendsTurns(t *testing.T) {
	a := &fakeAssistant{reply: "Drink water."}
	svc := NewChatService(a)
	sess := session.NewStore(time.Hour).New()
	sess.Authenticate("tok", pkg.RoleDoctor)
	sess.SetSelectedPatient(4)

	turns, err := svc.Send(context.Background(), sess, "I have a headache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 2 || turns[0].Author != pkg.AuthorUser || turns[1].Text != "Drink water." {
		t.Fatalf("unexpected turns %+v", turns)
	}
	if a.token != "tok" || a.patientID == nil || *a.patientID != 4 {
		t.Fatalf("expected token and patient context, got %q %v", a.token, a.patientID)
	}
	if len(sess.Transcript()) != 2 {
		t.Fatalf("expected transcript of 2, got %d", len(sess.Transcript()))
	}
}

func TestChatSendEmptyReplyUsesFallback(t *testing.T) {
	svc := NewChatService(&fakeAssistant{reply: "  "})
	sess := session.NewStore(time.Hour).New()
	sess.SetToken("tok")
	turns, err := svc.Send(context.Background(), sess, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if turns[1].Text != ChatFallback {
		t.Fatalf("expected fallback reply, got %q", turns[1].Text)
	}
}

func TestChatSendFailureKeepsTranscript(t *testing.T) {
	svc := NewChatService(&fakeAssistant{err: errors.New("down")})
	sess := session.NewStore(time.Hour).New()
	sess.SetToken("tok")
	if _, err := svc.Send(context.Background(), sess, "hi"); err == nil {
		t.Fatal("expected error")
	}
	if len(sess.Transcript()) != 0 {
		t.Fatal("failed send must not change the transcript")
	}
}
