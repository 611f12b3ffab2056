package screen

import (
	"fmt"
	"testing"

	"github.com/steelcutops/usermgr/usermgr/usermanager"
	"github.com/stretchr/testify/assert"
)

func makeUsers(logins ...string) []usermanager.User {
	users := make([]usermanager.User, 0, len(logins))
	for i, login := range logins {
		users = append(users, usermanager.User{
			ID:        usermanager.ID(fmt.Sprint(i + 1)),
			FirstName: "First" + login,
			LastName:  "Last" + login,
			Login:     login,
		})
	}
	return users
}

func numberedUsers(n int) []usermanager.User {
	logins := make([]string, n)
	for i := range logins {
		logins[i] = fmt.Sprintf("user%d", i+1)
	}
	return makeUsers(logins...)
}

func stateWith(users []usermanager.User, page int) State {
	st := newState()
	st.Users = users
	st.CurrentPage = page
	return st
}

func TestTotalPagesAndPageBounds(t *testing.T) {
	for n := 0; n <= 23; n++ {
		st := stateWith(numberedUsers(n), 1)
		want := (n + PageSize - 1) / PageSize
		assert.Equal(t, want, st.TotalPages(), "users=%d", n)

		seen := 0
		for page := 1; page <= want+1; page++ {
			st.CurrentPage = page
			rows := st.CurrentUsers()
			assert.LessOrEqual(t, len(rows), PageSize)
			seen += len(rows)
		}
		assert.Equal(t, n, seen, "every user lands on exactly one page")
	}
}

func TestSixUsersTwoPages(t *testing.T) {
	users := makeUsers("alice", "bob", "carol", "dave", "erin", "frank")

	page1 := stateWith(users, 1)
	assert.Equal(t, users[:5], page1.CurrentUsers())
	assert.Equal(t, 2, page1.TotalPages())
	c := page1.Controls()
	assert.True(t, c.PrevDisabled)
	assert.False(t, c.NextDisabled)
	assert.Equal(t, []PageButton{{Number: 1, Active: true}, {Number: 2}}, c.Pages)

	page2 := stateWith(users, 2)
	assert.Equal(t, users[5:], page2.CurrentUsers())
	c = page2.Controls()
	assert.False(t, c.PrevDisabled)
	assert.True(t, c.NextDisabled)
	assert.Equal(t, []PageButton{{Number: 1}, {Number: 2, Active: true}}, c.Pages)
}

func TestVisibleRowsSearchesCurrentPageOnly(t *testing.T) {
	users := makeUsers("alice", "Bob", "ALICE2", "carol", "dave", "malice3", "alice4")
	st := stateWith(users, 1)

	st.SearchTerm = "Alice"
	rows := st.VisibleRows()
	assert.Equal(t, []usermanager.User{users[0], users[2]}, rows)
	assert.Equal(t, 2, st.TotalPages(), "search does not change the page count")

	st.CurrentPage = 2
	assert.Equal(t, []usermanager.User{users[5], users[6]}, st.VisibleRows())

	st.SearchTerm = "zzz"
	assert.Empty(t, st.VisibleRows())

	st.SearchTerm = ""
	assert.Equal(t, st.CurrentUsers(), st.VisibleRows())
}

func TestVisibleRowsCaseFolding(t *testing.T) {
	st := stateWith(makeUsers("ÄRGER", "ärger", "anger"), 1)
	st.SearchTerm = "Ärg"
	assert.Len(t, st.VisibleRows(), 2)
}

func TestOutOfRangePages(t *testing.T) {
	users := numberedUsers(6)
	for _, page := range []int{-3, 0, 3, 100} {
		st := stateWith(users, page)
		assert.Empty(t, st.CurrentUsers(), "page %d", page)
	}
}

func TestUserLooksAcrossPages(t *testing.T) {
	st := stateWith(numberedUsers(12), 1)

	user, err := st.User("11")
	assert.NoError(t, err)
	assert.Equal(t, "user11", user.Login)

	_, err = st.User("99")
	assert.ErrorIs(t, err, usermanager.ErrNotFound)
}

func TestControlsEmptyList(t *testing.T) {
	st := stateWith(nil, 1)
	c := st.Controls()
	assert.Equal(t, 0, st.TotalPages())
	assert.True(t, c.PrevDisabled)
	assert.False(t, c.NextDisabled, "Next is only disabled on the last page")
	assert.Empty(t, c.Pages)
}

func TestEditBufferSet(t *testing.T) {
	var b EditBuffer
	assert.NoError(t, b.set(FieldFirstName, "A"))
	assert.NoError(t, b.set(FieldLastName, "B"))
	assert.NoError(t, b.set(FieldLogin, "ab"))
	assert.Equal(t, EditBuffer{FirstName: "A", LastName: "B", Login: "ab"}, b)
	assert.ErrorIs(t, b.set(Field("password"), "x"), ErrUnknownField)
}

func TestCloneIsIndependent(t *testing.T) {
	st := stateWith(makeUsers("alice"), 1)
	u := st.Users[0]
	st.EditTarget = &u

	c := st.clone()
	c.Users[0].Login = "changed"
	c.EditTarget.Login = "changed"

	assert.Equal(t, "alice", st.Users[0].Login)
	assert.Equal(t, "alice", st.EditTarget.Login)
}
