package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"wellness-portal/pkg"
)

// ErrNotFound is returned when a page session is unknown or has expired.
var ErrNotFound = errors.New("session: page session not found")

// Stage is the position of a page in the login flow.  It only moves forward;
// a reload starts a new page session at StageUnauthenticated.
type Stage int

const (
	StageUnauthenticated Stage = iota
	StageRoleChosen
	StageAuthenticated
)

// Session holds the state of one page load: the bearer credential, the
// selected patient and the chat transcript.  It is created on page load and
// discarded on navigation; nothing in it outlives the page.
type Session struct {
	ID string

	mu              sync.Mutex
	token           string
	stage           Stage
	chosenRole      pkg.Role
	role            pkg.Role
	selectedPatient *int64
	transcript      []pkg.ChatTurn
	lastSeen        time.Time
}

// SetToken stores the credential for the remainder of the page lifetime.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the credential and whether one is held.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// HasToken reports whether authenticated actions may be issued.
func (s *Session) HasToken() bool {
	_, ok := s.Token()
	return ok
}

// SetSelectedPatient marks the patient that upcoming report uploads and chat
// turns refer to.
func (s *Session) SetSelectedPatient(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedPatient = &id
}

// SelectedPatient returns the active patient, if any.
func (s *Session) SelectedPatient() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedPatient == nil {
		return 0, false
	}
	return *s.selectedPatient, true
}

// SelectedPatientRef returns the active patient as an optional reference,
// which is how request payloads carry it.
func (s *Session) SelectedPatientRef() *int64 {
	id, ok := s.SelectedPatient()
	if !ok {
		return nil
	}
	return &id
}

// ChooseRole records the role picked on the role selection screen.  It is a
// UI hint only and moves the page to the auth form.
func (s *Session) ChooseRole(role pkg.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage == StageAuthenticated {
		return
	}
	s.chosenRole = role
	s.stage = StageRoleChosen
}

// ChosenRole returns the role picked on the role selection screen.
func (s *Session) ChosenRole() pkg.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chosenRole
}

// Authenticate stores the credential together with the role decoded from it
// and moves the page to its terminal stage.  The selected patient and the
// transcript belong to the account they were made under and are dropped.
func (s *Session) Authenticate(token string, role pkg.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.role = role
	s.stage = StageAuthenticated
	s.selectedPatient = nil
	s.transcript = nil
}

// Role returns the role of the authenticated account, or "" before login.
func (s *Session) Role() pkg.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// Stage returns the current position in the login flow.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// AppendTurns adds turns to the transcript in order.
func (s *Session) AppendTurns(turns ...pkg.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, turns...)
}

// Transcript returns a copy of the chat transcript.
func (s *Session) Transcript() []pkg.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pkg.ChatTurn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Store keeps the live page sessions in memory.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

// NewStore constructs a Store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// New creates a fresh page session.
func (st *Store) New() *Session {
	s := &Session{ID: uuid.NewString(), lastSeen: st.now()}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the live page session with the given ID.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	now := st.now()
	if s.idleSince(now) > st.ttl {
		st.Discard(id)
		return nil, ErrNotFound
	}
	s.touch(now)
	return s, nil
}

// Discard drops a page session.  Unknown IDs are ignored.
func (st *Store) Discard(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live page sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts every session idle for longer than the TTL and returns how
// many were dropped.
func (st *Store) Sweep() int {
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (st *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Debug("expired page sessions evicted", "count", n)
			}
		}
	}
}
