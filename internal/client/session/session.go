// Package session holds who is signed in to the console. One Session is
// created at startup and handed to every manager; nothing looks it up
// globally.
//
// States: guest, then authenticated after Login, then guest again after
// Logout.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/logging"
)

// HomePath is where a login lands when no page asked for it.
const HomePath = "/"

// PrivatePrefixes are pages only signed-in users may open.
var PrivatePrefixes = []string{"/users"}

// Terminator ends the session on the server.
type Terminator interface {
	Terminate(ctx context.Context) error
}

// Listener is called with the new identity, nil after logout.
type Listener func(identity *models.User)

// Session is the signed-in identity shared by all managers.
type Session struct {
	mu        sync.RWMutex
	identity  *models.User
	returnTo  string
	listeners map[int]Listener
	nextID    int

	terminator Terminator
	logger     logging.Logger
}

// New returns a signed-out session.
func New(t Terminator, logger logging.Logger) *Session {
	return &Session{
		terminator: t,
		logger:     logger,
		listeners:  map[int]Listener{},
	}
}

// Identity returns the signed-in user, if any.
func (s *Session) Identity() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return models.User{}, false
	}
	return *s.identity, true
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// IsPrivate reports whether path needs a signed-in user.
func IsPrivate(path string) bool {
	for _, p := range PrivatePrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Require lets authenticated users through. For a guest it remembers path
// as the page to return to after login and reports false.
func (s *Session) Require(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		return true
	}
	s.returnTo = path
	return false
}

// Login makes identity the current user and returns the page to go to.
func (s *Session) Login(identity models.User) string {
	s.mu.Lock()
	s.identity = &identity
	next := s.returnTo
	s.returnTo = ""
	s.mu.Unlock()

	if next == "" {
		next = HomePath
	}
	s.notify(&identity)
	return next
}

// Logout clears the local identity and asks the server to end the
// session. A failure on the server side is only logged.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	was := s.identity
	s.identity = nil
	s.mu.Unlock()

	if s.terminator != nil {
		if err := s.terminator.Terminate(ctx); err != nil {
			s.logger.Warn(ctx, "session termination failed", "error", err)
		}
	}
	if was != nil {
		s.notify(nil)
	}
}

// Subscribe registers fn for identity changes; call the returned func to
// stop listening.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) notify(identity *models.User) {
	s.mu.RLock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(identity)
	}
}
