// Package tui drives the user management screen from a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/steelcutops/usermgr/usermgr/render"
	"github.com/steelcutops/usermgr/usermgr/screen"
	"github.com/steelcutops/usermgr/usermgr/usermanager"
)

func aborted(err error) bool {
	return errors.Is(err, huh.ErrUserAborted)
}

// ApplyBuffer copies the form values into the store's edit buffer, one
// field at a time in form order.
func ApplyBuffer(s *screen.Store, buf screen.EditBuffer) error {
	for _, f := range []struct {
		field screen.Field
		value string
	}{
		{screen.FieldFirstName, buf.FirstName},
		{screen.FieldLastName, buf.LastName},
		{screen.FieldLogin, buf.Login},
	} {
		if err := s.SetField(f.field, f.value); err != nil {
			return err
		}
	}
	return nil
}

// EditFlow opens the edit modal for user, lets the prompter fill it in and
// saves or cancels. It does not wait for the save to finish.
func EditFlow(ctx context.Context, s *screen.Store, p Prompter, user usermanager.User) error {
	s.Edit(user)
	buf := s.Snapshot().EditBuffer

	save, err := p.EditUser(ctx, &buf)
	if err != nil || !save {
		s.CloseEdit()
		if err != nil && !aborted(err) {
			return err
		}
		return nil
	}

	if err := ApplyBuffer(s, buf); err != nil {
		s.CloseEdit()
		return err
	}
	s.ConfirmEdit(ctx)
	return nil
}

// DeleteFlow asks for confirmation and deletes user when given.
func DeleteFlow(ctx context.Context, s *screen.Store, p Prompter, user usermanager.User) error {
	s.Delete(user)

	confirmed, err := p.ConfirmDelete(ctx, user)
	if err != nil || !confirmed {
		s.CloseDelete()
		if err != nil && !aborted(err) {
			return err
		}
		return nil
	}

	s.ConfirmDelete(ctx)
	return nil
}

// view holds the newest snapshot the store has published. Subscribers
// run on the goroutine that made the change, so snapshots can arrive out
// of order; older versions are dropped.
type view struct {
	mu sync.Mutex
	st screen.State
}

func (v *view) publish(st screen.State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if st.Version > v.st.Version {
		v.st = st
	}
}

func (v *view) latest() screen.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.st
}

// Browse runs the interactive screen until the user quits. Each round it
// renders the latest snapshot published by the store.
func Browse(ctx context.Context, s *screen.Store, p Prompter, out io.Writer) error {
	v := &view{st: s.Snapshot()}
	unsubscribe := s.Subscribe(v.publish)
	defer unsubscribe()

	s.Mount(ctx)

	for {
		s.Wait()
		st := v.latest()
		if err := render.Screen(out, st); err != nil {
			return err
		}

		action, err := p.Action(ctx, st)
		if aborted(err) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := step(ctx, s, p, st, action); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
		fmt.Fprintln(out)
	}
}

var errQuit = errors.New("quit")

func step(ctx context.Context, s *screen.Store, p Prompter, st screen.State, action Action) error {
	switch action {
	case ActionPrev:
		s.PrevPage()
	case ActionNext:
		s.NextPage()
	case ActionPage:
		page, err := p.Page(ctx, st)
		if err != nil {
			return ignoreAbort(err)
		}
		s.SetPage(page)
	case ActionSearch:
		term, err := p.Search(ctx, st.SearchTerm)
		if err != nil {
			return ignoreAbort(err)
		}
		s.SetSearchTerm(term)
	case ActionEdit, ActionDelete:
		rows := st.VisibleRows()
		if len(rows) == 0 {
			return nil
		}
		title := "Edit which user?"
		if action == ActionDelete {
			title = "Delete which user?"
		}
		user, err := p.PickUser(ctx, title, rows)
		if err != nil {
			return ignoreAbort(err)
		}
		if action == ActionEdit {
			return EditFlow(ctx, s, p, user)
		}
		return DeleteFlow(ctx, s, p, user)
	case ActionRefresh:
		s.FetchUsers(ctx)
	case ActionQuit:
		return errQuit
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

func ignoreAbort(err error) error {
	if aborted(err) {
		return nil
	}
	return err
}
