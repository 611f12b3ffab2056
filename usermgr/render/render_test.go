package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/steelcutops/usermgr/usermgr/screen"
	"github.com/steelcutops/usermgr/usermgr/usermanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testUsers = []usermanager.User{
	{ID: "1", FirstName: "Alice", LastName: "Liddell", Login: "alice"},
	{ID: "2", FirstName: "Bob", LastName: "Builder", Login: "bob"},
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "table": FormatTable, "JSON": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestUsersJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Users(&buf, FormatJSON, testUsers))

	var decoded []usermanager.User
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, testUsers, decoded)
	assert.Contains(t, buf.String(), `"id": 1`)
}

func TestUsersYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Users(&buf, FormatYAML, testUsers))

	var decoded []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "alice", decoded[0]["login"])
	assert.Equal(t, "Builder", decoded[1]["lastName"])
}

func TestUsersTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Users(&buf, FormatTable, testUsers))
	out := buf.String()
	for _, s := range []string{"First Name", "Username", "Alice", "Liddell", "bob"} {
		assert.Contains(t, out, s)
	}
}

func TestPagination(t *testing.T) {
	out := Pagination(screen.Controls{
		PrevDisabled: false,
		NextDisabled: true,
		Pages:        []screen.PageButton{{Number: 1}, {Number: 2, Active: true}},
	})
	assert.Contains(t, out, "< Previous")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, "Next >")
}

func TestScreen(t *testing.T) {
	st := screen.State{
		Users:           testUsers,
		CurrentPage:     1,
		PageSize:        screen.PageSize,
		SearchTerm:      "ALI",
		ShowDeleteModal: true,
		DeleteTarget:    &testUsers[1],
	}

	var buf bytes.Buffer
	require.NoError(t, Screen(&buf, st))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "User Management"))
	assert.Contains(t, out, "Search by username: ALI")
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "Builder", "filtered out by the search term")
	assert.Contains(t, out, "Are you sure you want to delete user bob?")
}

func TestScreenLoadError(t *testing.T) {
	st := screen.State{CurrentPage: 1, PageSize: screen.PageSize, LoadErr: errors.New("status 500")}

	var buf bytes.Buffer
	require.NoError(t, Screen(&buf, st))
	assert.Contains(t, buf.String(), "Failed to load users: status 500")
}
