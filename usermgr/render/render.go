package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/steelcutops/usermgr/usermgr/screen"
	"github.com/steelcutops/usermgr/usermgr/usermanager"
	"gopkg.in/yaml.v3"
)

// Format selects how user lists are printed.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	disabledStyle = lipgloss.NewStyle().Faint(true)
	activeStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// UsersTable draws users as a bordered table.
func UsersTable(users []usermanager.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{string(u.ID), u.FirstName, u.LastName, u.Login})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "First Name", "Last Name", "Username").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// Pagination draws the pagination bar, e.g. "< Previous  1 [2] 3  Next >".
func Pagination(c screen.Controls) string {
	var b strings.Builder

	prev := "< Previous"
	if c.PrevDisabled {
		prev = disabledStyle.Render(prev)
	}
	b.WriteString(prev)
	b.WriteString(" ")

	for _, p := range c.Pages {
		b.WriteString(" ")
		n := strconv.Itoa(p.Number)
		if p.Active {
			b.WriteString(activeStyle.Render("[" + n + "]"))
		} else {
			b.WriteString(n)
		}
	}

	next := "Next >"
	if c.NextDisabled {
		next = disabledStyle.Render(next)
	}
	b.WriteString("  ")
	b.WriteString(next)
	return b.String()
}

// Screen writes the whole user management screen for st.
func Screen(w io.Writer, st screen.State) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("User Management"))
	b.WriteString("\n")
	if st.SearchTerm != "" {
		fmt.Fprintf(&b, "Search by username: %s\n", st.SearchTerm)
	}
	if st.LoadErr != nil {
		b.WriteString(errorStyle.Render("Failed to load users: " + st.LoadErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString(UsersTable(st.VisibleRows()))
	b.WriteString("\n")
	b.WriteString(Pagination(st.Controls()))
	b.WriteString("\n")

	if st.ShowEditModal && st.EditTarget != nil {
		fmt.Fprintf(&b, "\nEdit User %s: %s %s (%s)\n", st.EditTarget.ID, st.EditBuffer.FirstName, st.EditBuffer.LastName, st.EditBuffer.Login)
	}
	if st.ShowDeleteModal && st.DeleteTarget != nil {
		fmt.Fprintf(&b, "\nAre you sure you want to delete user %s?\n", st.DeleteTarget.Login)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Users writes users in the requested format.
func Users(w io.Writer, format Format, users []usermanager.User) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(users)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(users); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, UsersTable(users))
		return err
	}
}
