package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage member profiles",
	}
	cmd.AddCommand(newUserSetNameCommand(rootOpts))
	return cmd
}

func newUserSetNameCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-name <member-id> <display-name>",
		Short: "Set a member's display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				if err := a.users.SetDisplayName(ctx, args[0], args[1]); err != nil {
					return err
				}
				a.names.Forget(args[0])
				return a.out.Success(map[string]string{"id": args[0], "displayName": args[1]},
					fmt.Sprintf("Display name of %s set to %q", args[0], args[1]))
			})
		},
	}
}
