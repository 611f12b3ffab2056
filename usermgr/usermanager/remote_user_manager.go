package usermanager

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/steelcutops/usermgr/common"
	"github.com/steelcutops/usermgr/usermgr/apiclient"
)

const usersPath = "/users"

// RemoteUserManager talks to the REST user API.
type RemoteUserManager struct {
	Requester apiclient.Requester
}

func userPath(id ID) string {
	return usersPath + "/" + url.PathEscape(string(id))
}

// GetUser looks the user up in the full list; the API has no single-user
// endpoint.
func (r *RemoteUserManager) GetUser(ctx context.Context, id ID) (User, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return User{}, err
	}
	return FindUser(users, id)
}

func (r *RemoteUserManager) ModifyUser(ctx context.Context, user User) error {
	_, err := r.Requester.Request(ctx, http.MethodPut, userPath(user.ID), UserUpdate{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Login:     user.Login,
	})
	return err
}

func (r *RemoteUserManager) DeleteUser(ctx context.Context, id ID) error {
	_, err := r.Requester.Request(ctx, http.MethodDelete, userPath(id), nil)
	return err
}

func (r *RemoteUserManager) ListUsers(ctx context.Context) ([]User, error) {
	resp, err := r.Requester.Request(ctx, http.MethodGet, usersPath, nil)
	if err != nil {
		return nil, err
	}

	users := []User{}
	if err := resp.Decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}

type loginResponse struct {
	Login string `json:"login"`
	Token string `json:"token"`
}

// Login opens a session and returns the bearer token issued by the API.
func (r *RemoteUserManager) Login(ctx context.Context, creds common.Credentials) (string, error) {
	resp, err := r.Requester.Request(ctx, http.MethodPost, "/login", map[string]string{
		"login":    creds.Login,
		"password": creds.Password,
	})
	if err != nil {
		return "", err
	}

	var out loginResponse
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("login response did not include a token")
	}
	return out.Token, nil
}
