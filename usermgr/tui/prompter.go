package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/steelcutops/usermgr/usermgr/screen"
	"github.com/steelcutops/usermgr/usermgr/usermanager"
)

// Action is one choice of the browse menu.
type Action string

const (
	ActionPrev    Action = "prev"
	ActionNext    Action = "next"
	ActionPage    Action = "page"
	ActionSearch  Action = "search"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionRefresh Action = "refresh"
	ActionQuit    Action = "quit"
)

// Prompter asks the user for input. HuhPrompter is the terminal version.
type Prompter interface {
	Action(ctx context.Context, st screen.State) (Action, error)
	Search(ctx context.Context, current string) (string, error)
	Page(ctx context.Context, st screen.State) (int, error)
	PickUser(ctx context.Context, title string, rows []usermanager.User) (usermanager.User, error)
	EditUser(ctx context.Context, buf *screen.EditBuffer) (bool, error)
	ConfirmDelete(ctx context.Context, user usermanager.User) (bool, error)
	Login(ctx context.Context) (string, error)
}

type HuhPrompter struct{}

func run(ctx context.Context, fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx)
}

func (HuhPrompter) Action(ctx context.Context, st screen.State) (Action, error) {
	c := st.Controls()
	options := make([]huh.Option[Action], 0, 8)
	if !c.PrevDisabled {
		options = append(options, huh.NewOption("Previous page", ActionPrev))
	}
	if !c.NextDisabled {
		options = append(options, huh.NewOption("Next page", ActionNext))
	}
	if len(c.Pages) > 1 {
		options = append(options, huh.NewOption("Go to page", ActionPage))
	}
	options = append(options, huh.NewOption("Search by username", ActionSearch))
	if len(st.VisibleRows()) > 0 {
		options = append(options,
			huh.NewOption("Edit a user", ActionEdit),
			huh.NewOption("Delete a user", ActionDelete),
		)
	}
	options = append(options,
		huh.NewOption("Refresh", ActionRefresh),
		huh.NewOption("Quit", ActionQuit),
	)

	var action Action
	err := run(ctx, huh.NewSelect[Action]().
		Title("What next?").
		Options(options...).
		Value(&action))
	return action, err
}

func (HuhPrompter) Search(ctx context.Context, current string) (string, error) {
	term := current
	err := run(ctx, huh.NewInput().
		Title("Search by username").
		Placeholder("leave empty to clear").
		Value(&term))
	return term, err
}

func (HuhPrompter) Page(ctx context.Context, st screen.State) (int, error) {
	c := st.Controls()
	options := make([]huh.Option[int], 0, len(c.Pages))
	for _, p := range c.Pages {
		options = append(options, huh.NewOption(strconv.Itoa(p.Number), p.Number))
	}

	page := st.CurrentPage
	err := run(ctx, huh.NewSelect[int]().
		Title("Page").
		Options(options...).
		Value(&page))
	return page, err
}

func (HuhPrompter) PickUser(ctx context.Context, title string, rows []usermanager.User) (usermanager.User, error) {
	options := make([]huh.Option[int], 0, len(rows))
	for i, u := range rows {
		label := fmt.Sprintf("%s (%s %s)", u.Login, u.FirstName, u.LastName)
		options = append(options, huh.NewOption(label, i))
	}

	var idx int
	if err := run(ctx, huh.NewSelect[int]().Title(title).Options(options...).Value(&idx)); err != nil {
		return usermanager.User{}, err
	}
	return rows[idx], nil
}

// EditUser runs the edit form over buf. It reports false when the user
// chose Close instead of saving.
func (HuhPrompter) EditUser(ctx context.Context, buf *screen.EditBuffer) (bool, error) {
	save := true
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("First Name").Value(&buf.FirstName),
			huh.NewInput().Title("Last Name").Value(&buf.LastName),
			huh.NewInput().Title("Username").Value(&buf.Login),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Edit User").
				Affirmative("Save changes").
				Negative("Close").
				Value(&save),
		),
	).RunWithContext(ctx)
	return save, err
}

func (HuhPrompter) ConfirmDelete(ctx context.Context, user usermanager.User) (bool, error) {
	var confirmed bool
	err := run(ctx, huh.NewConfirm().
		Title(fmt.Sprintf("Are you sure you want to delete user %s?", user.Login)).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirmed))
	return confirmed, err
}

func (HuhPrompter) Login(ctx context.Context) (string, error) {
	var login string
	err := run(ctx, huh.NewInput().
		Title("Login").
		Value(&login).
		Validate(func(s string) error {
			if s == "" {
				return errors.New("login is required")
			}
			return nil
		}))
	return login, err
}
