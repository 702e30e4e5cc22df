package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/touchbase/internal/community"
)

// NewCommunityCommand creates the community command group.
func NewCommunityCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "community",
		Short: "Manage community rosters",
	}
	cmd.AddCommand(newCommunityCreateCommand(rootOpts))
	cmd.AddCommand(newCommunityMembersCommand(rootOpts))
	cmd.AddCommand(newCommunityListCommand(rootOpts))
	cmd.AddCommand(newCommunityAddMocksCommand(rootOpts))
	return cmd
}

func newCommunityCreateCommand(opts *RootOptions) *cobra.Command {
	var (
		name        string
		description string
		creator     string
		members     []string
	)

	cmd := &cobra.Command{
		Use:   "create <community-id>",
		Short: "Create a community",
		Long: `Create a community. The creator is always a member.

Example:
  touchbase community create c1 --name "Book club" --creator alice --member bob --member carol`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				c, err := a.dir.Create(ctx, community.Community{
					ID:          args[0],
					Name:        name,
					Description: description,
					CreatedBy:   creator,
					Members:     members,
				})
				if err != nil {
					return err
				}
				return a.out.Success(communityView{ID: c.ID, Community: c},
					fmt.Sprintf("Created community %s with %d members", c.ID, len(c.Members)))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "community name (required)")
	cmd.Flags().StringVar(&description, "description", "", "community description")
	cmd.Flags().StringVar(&creator, "creator", "", "member id of the creator (required)")
	cmd.Flags().StringArrayVar(&members, "member", nil, "member id to add (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("creator")

	return cmd
}

func newCommunityMembersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "members <community-id>",
		Short: "List the members of a community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				members, err := a.dir.Members(ctx, args[0])
				if err != nil {
					return err
				}
				lines := make([]string, len(members))
				for i, m := range members {
					lines[i] = a.name(ctx, m)
				}
				return a.out.Success(members, joinLines(lines, "No members."))
			})
		},
	}
}

func newCommunityListCommand(opts *RootOptions) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the communities a member belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				cs, err := a.dir.ListForMember(ctx, as)
				if err != nil {
					return err
				}
				views := make([]communityView, len(cs))
				lines := make([]string, len(cs))
				for i, c := range cs {
					views[i] = communityView{ID: c.ID, Community: c}
					lines[i] = fmt.Sprintf("%s  %s  %d members", c.ID, c.Name, len(c.Members))
				}
				return a.out.Success(views, joinLines(lines, "No communities."))
			})
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "member id (required)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newCommunityAddMocksCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-mocks <community-id>",
		Short: "Add the simulated members to a community",
		Long: `Add the simulated members to a community.

Games against a simulated member are played by the bot: its guess and
reveal are filled in automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				c, err := a.dir.AddMockMembers(ctx, args[0])
				if err != nil {
					return err
				}
				return a.out.Success(communityView{ID: c.ID, Community: c},
					fmt.Sprintf("Community %s members: %s", c.ID, strings.Join(c.Members, ", ")))
			})
		},
	}
}
