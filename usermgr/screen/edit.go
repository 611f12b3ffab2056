package screen

import (
	"context"

	"github.com/steelcutops/usermgr/usermgr/apiclient"
	"github.com/steelcutops/usermgr/usermgr/usermanager"
)

// Edit opens the edit modal for user with the form seeded from its fields.
func (s *Store) Edit(user usermanager.User) {
	s.update(func(st *State) bool {
		u := user
		st.EditTarget = &u
		st.EditBuffer = EditBuffer{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Login:     user.Login,
		}
		st.ShowEditModal = true
		return true
	})
}

// SetField changes one input of the edit form.
func (s *Store) SetField(field Field, value string) error {
	var err error
	s.update(func(st *State) bool {
		err = st.EditBuffer.set(field, value)
		return err == nil
	})
	return err
}

// CloseEdit cancels editing. No request is sent.
func (s *Store) CloseEdit() {
	s.update(func(st *State) bool {
		st.ShowEditModal = false
		st.EditTarget = nil
		st.EditBuffer = EditBuffer{}
		return true
	})
}

// ConfirmEdit saves the form. The modal closes right away, before the PUT
// is answered, and stays closed whatever the outcome. On success the list is
// reloaded; on failure the error is logged and a 401 clears the auth header.
func (s *Store) ConfirmEdit(ctx context.Context) {
	var updated *usermanager.User
	s.update(func(st *State) bool {
		if st.EditTarget == nil {
			return false
		}
		updated = &usermanager.User{
			ID:        st.EditTarget.ID,
			FirstName: st.EditBuffer.FirstName,
			LastName:  st.EditBuffer.LastName,
			Login:     st.EditBuffer.Login,
		}
		st.ShowEditModal = false
		st.EditTarget = nil
		st.EditBuffer = EditBuffer{}
		return true
	})
	if updated == nil {
		s.log.Warn("Save requested with no user being edited")
		return
	}

	user := *updated
	s.track(func() {
		if err := s.users.ModifyUser(ctx, user); err != nil {
			s.log.Error("Error updating user", "user_id", user.ID, "error", err)
			if apiclient.IsUnauthorized(err) {
				s.auth.SetAuthHeader(nil)
			}
			return
		}
		s.FetchUsers(ctx)
	})
}
