package screen

import (
	"context"

	"github.com/steelcutops/usermgr/usermgr/usermanager"
)

// Delete asks for confirmation before removing user.
func (s *Store) Delete(user usermanager.User) {
	s.log.Debug("Preparing to delete user", "user_id", user.ID, "login", user.Login)
	s.update(func(st *State) bool {
		u := user
		st.DeleteTarget = &u
		st.ShowDeleteModal = true
		return true
	})
}

// CloseDelete cancels the pending deletion. No request is sent.
func (s *Store) CloseDelete() {
	s.update(func(st *State) bool {
		st.ShowDeleteModal = false
		st.DeleteTarget = nil
		return true
	})
}

// ConfirmDelete removes the pending user. Without one it does nothing.
// The modal closes before the DELETE is answered. Failures are only logged;
// unlike edits, a 401 here does not touch the auth header.
func (s *Store) ConfirmDelete(ctx context.Context) {
	var target *usermanager.User
	s.update(func(st *State) bool {
		if st.DeleteTarget == nil {
			return false
		}
		target = st.DeleteTarget
		st.ShowDeleteModal = false
		st.DeleteTarget = nil
		return true
	})
	if target == nil {
		s.log.Debug("Delete confirmed with no user selected")
		return
	}

	id := target.ID
	s.log.Debug("Confirming delete", "user_id", id)
	s.track(func() {
		if err := s.users.DeleteUser(ctx, id); err != nil {
			s.log.Error("Error deleting user", "user_id", id, "error", err)
			return
		}
		s.FetchUsers(ctx)
	})
}
