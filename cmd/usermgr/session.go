package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/steelcutops/usermgr/common"
	"github.com/steelcutops/usermgr/usermgr/authstore"
)

func newLoginCmd(a *app) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				if !a.interactive {
					return errors.New("--username is required when not running in a terminal")
				}
				name, err := a.prompter.Login(cmd.Context())
				if err != nil {
					return err
				}
				username = name
			}

			password, err := readPassword(cmd.InOrStdin(), cmd.OutOrStdout(), "Enter the password: ")
			if err != nil {
				return err
			}

			token, err := a.users.Login(cmd.Context(), common.Credentials{Login: username, Password: password})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := a.auth.Save(&token); err != nil {
				return err
			}

			a.log.Info("Logged in", "login", username)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Login to authenticate as")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Save(nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who the stored session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.session.Token()
			if errors.Is(err, authstore.ErrNoToken) {
				return errSessionExpired
			}
			if err != nil {
				return err
			}

			info, err := authstore.Inspect(token, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Login:   %s\n", info.Subject)
			if info.Issuer != "" {
				fmt.Fprintf(out, "Issuer:  %s\n", info.Issuer)
			}
			switch {
			case info.ExpiresAt.IsZero():
				fmt.Fprintln(out, "Expires: never")
			case info.Expired:
				fmt.Fprintf(out, "Expires: %s (expired)\n", info.ExpiresAt.Format(time.RFC3339))
			default:
				fmt.Fprintf(out, "Expires: %s\n", info.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}
