// Package screen implements the user management screen: the list, search
// and pagination view over the users fetched from the API, and the edit and
// delete flows.
//
// All state lives in a Store. Every change goes through a single update
// path and is published to subscribers as a snapshot. Requests run in the
// background; Wait blocks until they have all settled.
package screen

import (
	"sync"

	"github.com/steelcutops/usermgr/logger"
	"github.com/steelcutops/usermgr/usermgr/authstore"
	"github.com/steelcutops/usermgr/usermgr/usermanager"
)

type StoreOption func(*Store)

// WithLogger returns a StoreOption that sets the logger for request failures.
func WithLogger(log logger.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// Store owns the screen State.
type Store struct {
	users usermanager.UserManager
	auth  authstore.HeaderSetter
	log   logger.Logger

	mu       sync.Mutex
	state    State
	mounted  bool
	fetchGen uint64
	subs     map[int]func(State)
	nextSub  int

	inflight sync.WaitGroup
}

func NewStore(users usermanager.UserManager, auth authstore.HeaderSetter, options ...StoreOption) *Store {
	s := &Store{
		users: users,
		auth:  auth,
		log:   logger.Discard(),
		state: newState(),
		subs:  make(map[int]func(State)),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func removes the subscription. fn runs on whichever goroutine
// made the change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Wait blocks until every request started by the store has finished,
// including the refetches they trigger.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// update applies fn under the lock. fn reports whether it changed anything;
// subscribers are only notified when it did.
func (s *Store) update(fn func(st *State) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	s.state.Version++
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

func (s *Store) track(fn func()) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		fn()
	}()
}

// SetPage jumps straight to page n. The value is not validated.
func (s *Store) SetPage(n int) {
	s.update(func(st *State) bool {
		st.CurrentPage = n
		return true
	})
}

// PrevPage acts like the Previous button: nothing happens while it is disabled.
func (s *Store) PrevPage() {
	s.update(func(st *State) bool {
		if st.Controls().PrevDisabled {
			return false
		}
		st.CurrentPage--
		return true
	})
}

// NextPage acts like the Next button: nothing happens while it is disabled.
func (s *Store) NextPage() {
	s.update(func(st *State) bool {
		if st.Controls().NextDisabled {
			return false
		}
		st.CurrentPage++
		return true
	})
}

func (s *Store) SetSearchTerm(term string) {
	s.update(func(st *State) bool {
		st.SearchTerm = term
		return true
	})
}
