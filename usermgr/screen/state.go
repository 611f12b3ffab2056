package screen

import (
	"errors"
	"slices"
	"strings"

	"github.com/steelcutops/usermgr/usermgr/usermanager"
	"golang.org/x/text/cases"
)

// PageSize is the number of users shown per page.
const PageSize = 5

var ErrUnknownField = errors.New("unknown edit field")

// Field names one input of the edit form.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldLogin     Field = "login"
)

// EditBuffer holds the form values while a user is being edited.
type EditBuffer struct {
	FirstName string
	LastName  string
	Login     string
}

func (b *EditBuffer) set(field Field, value string) error {
	switch field {
	case FieldFirstName:
		b.FirstName = value
	case FieldLastName:
		b.LastName = value
	case FieldLogin:
		b.Login = value
	default:
		return ErrUnknownField
	}
	return nil
}

// State is everything the user management screen shows. Values handed out
// by the Store are snapshots; changing them does not affect the store.
type State struct {
	// Version increases with every change, so observers can drop
	// snapshots that arrive out of order.
	Version uint64

	Users       []usermanager.User
	CurrentPage int
	PageSize    int
	SearchTerm  string

	EditTarget   *usermanager.User
	EditBuffer   EditBuffer
	DeleteTarget *usermanager.User

	ShowEditModal   bool
	ShowDeleteModal bool

	// LoadErr is the last list failure other than 401. Users is empty while
	// it is set.
	LoadErr error
}

func newState() State {
	return State{
		Users:       []usermanager.User{},
		CurrentPage: 1,
		PageSize:    PageSize,
	}
}

func (st State) clone() State {
	c := st
	c.Users = slices.Clone(st.Users)
	if st.EditTarget != nil {
		u := *st.EditTarget
		c.EditTarget = &u
	}
	if st.DeleteTarget != nil {
		u := *st.DeleteTarget
		c.DeleteTarget = &u
	}
	return c
}

func (st State) pageSize() int {
	if st.PageSize < 1 {
		return PageSize
	}
	return st.PageSize
}

// CurrentUsers returns the slice of Users on the current page. The search
// term is not applied. Pages outside the list yield an empty slice;
// negative pages do not count back from the end of the list.
func (st State) CurrentUsers() []usermanager.User {
	size := st.pageSize()
	last := st.CurrentPage * size
	first := last - size

	first = max(0, min(first, len(st.Users)))
	last = max(0, min(last, len(st.Users)))
	if first >= last {
		return []usermanager.User{}
	}
	return slices.Clone(st.Users[first:last])
}

// User looks id up in the loaded list, on any page.
func (st State) User(id usermanager.ID) (usermanager.User, error) {
	return usermanager.FindUser(st.Users, id)
}

// TotalPages counts pages over the whole unfiltered list.
func (st State) TotalPages() int {
	size := st.pageSize()
	return (len(st.Users) + size - 1) / size
}

// VisibleRows filters the current page by SearchTerm, matching logins
// case-insensitively. Only the current page is searched, and TotalPages is
// unaffected.
func (st State) VisibleRows() []usermanager.User {
	page := st.CurrentUsers()
	if st.SearchTerm == "" {
		return page
	}

	fold := cases.Fold()
	term := fold.String(st.SearchTerm)

	rows := make([]usermanager.User, 0, len(page))
	for _, u := range page {
		if strings.Contains(fold.String(u.Login), term) {
			rows = append(rows, u)
		}
	}
	return rows
}

// PageButton is one numbered pagination button.
type PageButton struct {
	Number int
	Active bool
}

// Controls describes the pagination bar.
type Controls struct {
	PrevDisabled bool
	NextDisabled bool
	Pages        []PageButton
}

// Controls derives the pagination bar. Next is only disabled on the exact
// last page, so an empty list leaves it enabled.
func (st State) Controls() Controls {
	total := st.TotalPages()
	c := Controls{
		PrevDisabled: st.CurrentPage == 1,
		NextDisabled: st.CurrentPage == total,
		Pages:        make([]PageButton, 0, total),
	}
	for n := 1; n <= total; n++ {
		c.Pages = append(c.Pages, PageButton{Number: n, Active: n == st.CurrentPage})
	}
	return c
}
