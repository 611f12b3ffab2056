package usermanager

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("user not found")

// ID is the server's opaque user identifier. The API may send it as a JSON
// number or a string; both decode to the same value.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid user id %s", b)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids back as numbers so PUT paths and bodies
// match what the server handed out.
func (id ID) MarshalJSON() ([]byte, error) {
	if id != "" && json.Valid([]byte(id)) && isNumber(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func isNumber(s string) bool {
	for i, r := range s {
		if r == '-' && i == 0 && len(s) > 1 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// User represents a user account as known to the API.
type User struct {
	ID        ID     `json:"id" yaml:"id"`               // immutable
	FirstName string `json:"firstName" yaml:"firstName"` // editable
	LastName  string `json:"lastName" yaml:"lastName"`   // editable
	Login     string `json:"login" yaml:"login"`         // editable, searched
}

// UserUpdate carries the editable fields sent on modification.
type UserUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Login     string `json:"login"`
}

// FindUser returns the user with id from users, or an error wrapping
// ErrNotFound.
func FindUser(users []User, id ID) (User, error) {
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// UserManager encompasses operations related to user management.
type UserManager interface {
	// Fetches the details of a user based on id
	GetUser(ctx context.Context, id ID) (User, error)

	// Modifies an existing user
	ModifyUser(ctx context.Context, user User) error

	// Deletes a user based on id
	DeleteUser(ctx context.Context, id ID) error

	// Lists all users in server order
	ListUsers(ctx context.Context) ([]User, error)
}
