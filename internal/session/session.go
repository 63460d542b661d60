// Package session tracks the single authenticated identity for the whole
// application run. The credential directory is in-memory and volatile: it
// does not survive a restart, which is the intended demo-mode behavior. Only
// the current session record is persisted, so a restarted process resumes
// the session of whoever was logged in.
package session

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pcp-service/internal/model"
)

// sessionKey is the persisted-state entry holding the current session JSON
const sessionKey = "pcp_user"

// Backing is the persistence the current session is written through.
// Satisfied by *localstore.Store.
type Backing interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// ProfilePatch carries the fields a user may change about themselves.
// Identity fields (id, email, role) are not patchable.
type ProfilePatch struct {
	Name    *string `json:"name,omitempty"`
	Picture *string `json:"picture,omitempty"`
}

type credential struct {
	user         model.User
	passwordHash []byte
}

// Store holds the credential directory and the current session
type Store struct {
	mu        sync.RWMutex
	kv        Backing
	logger    *zap.Logger
	directory map[string]*credential
	current   *model.User
	loading   bool
}

// NewStore returns a session store persisting the current session through kv
func NewStore(kv Backing, logger *zap.Logger) *Store {
	return &Store{
		kv:        kv,
		logger:    logger,
		directory: make(map[string]*credential),
		loading:   true,
	}
}

// Initialize reads a previously persisted session. Corrupt JSON is discarded
// together with its persisted entry; the store settles to anonymous instead
// of propagating the parse error.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	raw, ok, err := s.kv.Get(sessionKey)
	if err != nil {
		s.logger.Error("Failed to read persisted session", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("Discarding corrupt persisted session", zap.Error(err))
		if err := s.kv.Delete(sessionKey); err != nil {
			s.logger.Error("Failed to remove corrupt session entry", zap.Error(err))
		}
		return
	}

	s.current = &user
	s.logger.Info("Session restored", zap.String("email", user.Email))
}

// Seed creates or replaces a directory entry without going through
// registration. Used for the configured admin account on startup.
func (s *Store) Seed(name, email, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.directory[email] = &credential{
		user: model.User{
			ID:    uuid.New().String(),
			Name:  name,
			Email: email,
			Role:  role,
		},
		passwordHash: hash,
	}
	return nil
}

// Login authenticates against the directory. It succeeds only on an exact
// password match and has no side effects otherwise.
func (s *Store) Login(email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.directory[email]
	if !ok {
		return false
	}
	if bcrypt.CompareHashAndPassword(entry.passwordHash, []byte(password)) != nil {
		return false
	}

	user := entry.user
	s.current = &user
	s.persist()
	s.logger.Info("User logged in", zap.String("email", email))
	return true
}

// Register creates a directory entry with the default non-privileged role
// and logs the new user in. A duplicate email fails without touching the
// existing entry.
func (s *Store) Register(name, email, password string) bool {
	s.mu.Lock()
	if _, exists := s.directory[email]; exists {
		s.mu.Unlock()
		return false
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("Failed to hash password", zap.Error(err))
		return false
	}

	s.directory[email] = &credential{
		user: model.User{
			ID:    uuid.New().String(),
			Name:  name,
			Email: email,
			Role:  model.RoleUser,
		},
		passwordHash: hash,
	}
	s.mu.Unlock()

	s.logger.Info("User registered", zap.String("email", email))
	return s.Login(email, password)
}

// UpdateProfile merges the patch into both the directory entry and the
// current session. Fails only when no session is active.
func (s *Store) UpdateProfile(patch ProfilePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return false
	}

	if patch.Name != nil {
		s.current.Name = *patch.Name
	}
	if patch.Picture != nil {
		s.current.Picture = *patch.Picture
	}
	if entry, ok := s.directory[s.current.Email]; ok {
		entry.user.Name = s.current.Name
		entry.user.Picture = s.current.Picture
	}

	s.persist()
	s.logger.Info("Profile updated", zap.String("email", s.current.Email))
	return true
}

// Logout clears the current session and its persisted copy
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.logger.Info("User logged out", zap.String("email", s.current.Email))
	}
	s.current = nil
	if err := s.kv.Delete(sessionKey); err != nil {
		s.logger.Error("Failed to clear persisted session", zap.Error(err))
	}
}

// Current returns a copy of the authenticated user, or nil when anonymous
func (s *Store) Current() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

// Authenticated reports whether a user is logged in
func (s *Store) Authenticated() bool {
	return s.Current() != nil
}

// Loading reports whether Initialize has not yet completed
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// persist writes the current session; callers hold the lock. A storage
// failure is logged, never surfaced, so a flaky disk cannot block login.
func (s *Store) persist() {
	raw, err := json.Marshal(s.current)
	if err != nil {
		s.logger.Error("Failed to encode session", zap.Error(err))
		return
	}
	if err := s.kv.Set(sessionKey, string(raw)); err != nil {
		s.logger.Error("Failed to persist session", zap.Error(err))
	}
}
