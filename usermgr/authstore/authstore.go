// Package authstore keeps the bearer token attached to API requests.
//
// Setting the header to nil clears the session; the next request goes out
// unauthenticated and the user has to log in again.
package authstore

import (
	"errors"
	"sync"
)

var ErrNoToken = errors.New("not logged in")

// HeaderSetter stores or clears the auth header value.
type HeaderSetter interface {
	SetAuthHeader(value *string)
}

// Store is a HeaderSetter that also serves the token back to the HTTP client.
type Store interface {
	HeaderSetter
	Token() (string, error)
}

// MemoryStore keeps the token for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	token *string
}

func NewMemoryStore(token string) *MemoryStore {
	s := &MemoryStore{}
	if token != "" {
		s.token = &token
	}
	return s
}

func (s *MemoryStore) SetAuthHeader(value *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == nil {
		s.token = nil
		return
	}
	v := *value
	s.token = &v
}

func (s *MemoryStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil || *s.token == "" {
		return "", ErrNoToken
	}
	return *s.token, nil
}
