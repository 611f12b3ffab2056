package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/steelcutops/usermgr/usermgr/apiclient"
	"github.com/steelcutops/usermgr/usermgr/render"
	"github.com/steelcutops/usermgr/usermgr/screen"
	"github.com/steelcutops/usermgr/usermgr/tui"
	"github.com/steelcutops/usermgr/usermgr/usergroup"
	"github.com/steelcutops/usermgr/usermgr/usermanager"
)

func newListCmd(a *app) *cobra.Command {
	var (
		page   int
		search string
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(output)
			if err != nil {
				return err
			}

			store, _, err := a.loadScreen(cmd.Context())
			if err != nil {
				return err
			}
			store.SetPage(page)
			store.SetSearchTerm(search)

			st := store.Snapshot()
			if format == render.FormatTable {
				return render.Screen(cmd.OutOrStdout(), st)
			}
			return render.Users(cmd.OutOrStdout(), format, st.VisibleRows())
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show users on the page whose username contains this")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

type fieldValue struct {
	flag  string
	field screen.Field
	value string
}

func newEditCmd(a *app) *cobra.Command {
	var buf screen.EditBuffer

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a user's name or username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, t, err := a.loadScreen(ctx)
			if err != nil {
				return err
			}
			user, err := store.Snapshot().User(usermanager.ID(args[0]))
			if err != nil {
				return err
			}

			var changes []fieldValue
			for _, fv := range []fieldValue{
				{"first-name", screen.FieldFirstName, buf.FirstName},
				{"last-name", screen.FieldLastName, buf.LastName},
				{"login", screen.FieldLogin, buf.Login},
			} {
				if cmd.Flags().Changed(fv.flag) {
					changes = append(changes, fv)
				}
			}

			switch {
			case len(changes) > 0:
				store.Edit(user)
				for _, c := range changes {
					if err := store.SetField(c.field, c.value); err != nil {
						store.CloseEdit()
						return err
					}
				}
				store.ConfirmEdit(ctx)
			case a.interactive:
				if err := tui.EditFlow(ctx, store, a.prompter, user); err != nil {
					return err
				}
			default:
				return errors.New("nothing to change: pass --first-name, --last-name or --login")
			}

			store.Wait()
			if err := t.Err(); err != nil {
				return fmt.Errorf("failed to update user %s: %w", user.ID, err)
			}

			updated, err := store.Snapshot().User(usermanager.ID(args[0]))
			if err != nil {
				return nil
			}
			return render.Users(cmd.OutOrStdout(), render.FormatTable, []usermanager.User{updated})
		},
	}

	cmd.Flags().StringVar(&buf.FirstName, "first-name", "", "New first name")
	cmd.Flags().StringVar(&buf.LastName, "last-name", "", "New last name")
	cmd.Flags().StringVar(&buf.Login, "login", "", "New username")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete one or more users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !a.interactive {
				return errors.New("refusing to delete without confirmation: pass --yes")
			}
			if len(args) > 1 {
				return a.deleteMany(cmd, args, yes)
			}

			ctx := cmd.Context()
			store, t, err := a.loadScreen(ctx)
			if err != nil {
				return err
			}
			user, err := store.Snapshot().User(usermanager.ID(args[0]))
			if err != nil {
				return err
			}

			if yes {
				store.Delete(user)
				store.ConfirmDelete(ctx)
			} else if err := tui.DeleteFlow(ctx, store, a.prompter, user); err != nil {
				return err
			}

			store.Wait()
			if err := t.Err(); err != nil {
				return fmt.Errorf("failed to delete user %s: %w", user.ID, err)
			}
			if _, err := store.Snapshot().User(usermanager.ID(args[0])); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Kept user %s\n", user.Login)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", user.Login)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) deleteMany(cmd *cobra.Command, ids []string, yes bool) error {
	group := usergroup.NewUserGroup()
	for _, id := range ids {
		group.AddUser(usermanager.User{ID: usermanager.ID(id)})
	}

	if !yes {
		confirmed, err := a.prompter.ConfirmDelete(cmd.Context(), usermanager.User{
			Login: fmt.Sprintf("%d users", len(ids)),
		})
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	err := group.Delete(cmd.Context(), a.users, a.cfg.Concurrency)
	for _, id := range ids {
		if !group.HasUser(usermanager.ID(id)) {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", id)
		}
	}
	if err != nil {
		a.log.Error("Bulk delete finished with errors", "error", err)
		return err
	}
	return nil
}

func newGetCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(output)
			if err != nil {
				return err
			}

			user, err := a.users.GetUser(cmd.Context(), usermanager.ID(args[0]))
			if apiclient.IsUnauthorized(err) {
				a.session.SetAuthHeader(nil)
				return errSessionExpired
			}
			if err != nil {
				return err
			}
			return render.Users(cmd.OutOrStdout(), format, []usermanager.User{user})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive user management screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive {
				return errors.New("browse needs a terminal")
			}
			store, t := a.newStore()
			if err := tui.Browse(cmd.Context(), store, a.prompter, cmd.OutOrStdout()); err != nil {
				return err
			}
			if errors.Is(t.Err(), errSessionExpired) {
				return errSessionExpired
			}
			return nil
		},
	}
}
