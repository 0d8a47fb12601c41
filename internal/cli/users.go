package cli

import (
	"context"
	"fmt"

	"github.com/fwmon/fwmon/internal/models"
	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
		Long: `Manage user accounts.

Examples:
  # Create users from a file
  fwmon users create -f users.yaml

  # Promote a user
  fwmon users update 3 --set role=admin

  # Deactivate a user
  fwmon users update 3 --set is_active=false`,
	}

	usersCmd.AddCommand(listCmd("user", func(ctx context.Context) (any, error) {
		return newClient().Users.GetAll(ctx)
	}))
	usersCmd.AddCommand(getByIDCmd("user", func(ctx context.Context, id int) (any, error) {
		return newClient().Users.GetByID(ctx, id)
	}))
	usersCmd.AddCommand(newUsersCreateCmd())
	usersCmd.AddCommand(newUsersUpdateCmd())
	usersCmd.AddCommand(deleteByIDCmd("user", func(ctx context.Context, id int) (any, error) {
		return newClient().Users.Delete(ctx, id)
	}))
	return usersCmd
}

func newUsersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create -f FILE",
		Short: "Create users from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd)
			if err != nil {
				return err
			}
			users := newClient().Users
			return sendDocuments[models.UserCreate](cmd, "user", docs, func(ctx context.Context, doc map[string]any) (any, error) {
				return users.Create(ctx, doc)
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID [-f FILE] [--set path=value]",
		Short: "Update fields of a user",
		Long:  `Update fields of a user. Only the fields present in the file or given with --set change.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			docs, err := loadDocuments(cmd)
			if err != nil {
				return err
			}
			if len(docs) != 1 {
				return fmt.Errorf("expected one document, found %d", len(docs))
			}
			users := newClient().Users
			return sendDocuments[models.UserUpdate](cmd, "user", docs, func(ctx context.Context, doc map[string]any) (any, error) {
				return users.Update(ctx, id, doc)
			})
		},
	}
	addInputFlags(cmd, false)
	return cmd
}
