package screen

import (
	"context"

	"github.com/steelcutops/usermgr/usermgr/apiclient"
	"github.com/steelcutops/usermgr/usermgr/usermanager"
)

// Mount loads the user list the first time it is called. Later calls do
// nothing.
func (s *Store) Mount(ctx context.Context) {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = true
	s.mu.Unlock()

	s.FetchUsers(ctx)
}

// FetchUsers reloads the full user list in the background.
//
// Each call takes a new generation number and only the response of the
// latest generation is applied. A 401 clears the auth header and leaves
// Users alone; any other failure empties Users and records LoadErr.
func (s *Store) FetchUsers(ctx context.Context) {
	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	s.mu.Unlock()

	s.track(func() {
		users, err := s.users.ListUsers(ctx)
		s.applyFetch(gen, users, err)
	})
}

func (s *Store) applyFetch(gen uint64, users []usermanager.User, err error) {
	if err != nil && apiclient.IsUnauthorized(err) {
		s.log.Warn("Session expired while loading users", "status", apiclient.StatusCode(err))
		s.auth.SetAuthHeader(nil)
		return
	}

	stale := false
	s.update(func(st *State) bool {
		if gen != s.fetchGen {
			stale = true
			return false
		}
		if err != nil {
			st.Users = []usermanager.User{}
			st.LoadErr = err
			return true
		}
		if users == nil {
			users = []usermanager.User{}
		}
		st.Users = users
		st.LoadErr = nil
		return true
	})

	switch {
	case stale:
		s.log.Debug("Dropped stale user list", "generation", gen)
	case err != nil:
		s.log.Error("Failed to load users", "status", apiclient.StatusCode(err), "error", err)
	}
}
