package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// UserKey is the slot key holding the serialized identity.
const UserKey = "user"

var ErrNotAuthenticated = errors.New("not logged in")

// Store keeps the current session in memory and mirrors it to a Slot.
// Persistence is best effort: failures are logged and never undo the
// in-memory change.
type Store struct {
	slot   Slot
	logger *zap.Logger

	// writeMu orders persistence so the slot ends with the last SetUser.
	writeMu sync.Mutex

	mu      sync.RWMutex
	session Session
}

func NewStore(slot Slot, logger *zap.Logger) *Store {
	return &Store{slot: slot, logger: logger}
}

// Load restores the session from the slot. A missing, unreadable or
// unparsable value yields an empty session.
func (s *Store) Load(ctx context.Context) Session {
	var sess Session

	raw, err := s.slot.Get(ctx, UserKey)
	switch {
	case errors.Is(err, ErrSlotEmpty):
	case err != nil:
		s.logger.Warn("session: read slot failed", zap.Error(err))
	default:
		var u Identity
		if err := json.Unmarshal(raw, &u); err != nil {
			s.logger.Warn("session: stored identity is not valid json", zap.Error(err))
		} else if u.ID == "" {
			s.logger.Warn("session: stored identity has no id")
		} else {
			sess.User = &u
		}
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	return sess.clone()
}

// SetUser replaces the identity; nil logs out. The in-memory session changes
// before the slot is written.
func (s *Store) SetUser(ctx context.Context, u *Identity) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var stored *Identity
	if u != nil {
		cp := *u
		stored = &cp
	}
	s.mu.Lock()
	s.session = Session{User: stored}
	s.mu.Unlock()

	if stored == nil {
		if err := s.slot.Delete(ctx, UserKey); err != nil && !errors.Is(err, ErrSlotEmpty) {
			s.logger.Error("session: delete identity failed", zap.Error(err))
		}
		return
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		s.logger.Error("session: encode identity failed", zap.Error(err))
		return
	}
	if err := s.slot.Set(ctx, UserKey, raw); err != nil {
		s.logger.Error("session: persist identity failed", zap.Error(err), zap.String("user_id", stored.ID))
	}
}

func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.clone()
}

// User returns a copy of the identity, or nil.
func (s *Store) User() *Identity {
	return s.Session().User
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAdmin()
}

// Reset clears the in-memory session without touching the slot.
func (s *Store) Reset() {
	s.mu.Lock()
	s.session = Session{}
	s.mu.Unlock()
}

func (s Session) clone() Session {
	if s.User == nil {
		return Session{}
	}
	u := *s.User
	return Session{User: &u}
}
