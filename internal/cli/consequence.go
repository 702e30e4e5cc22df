package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewConsequenceCommand creates the consequence command group.
func NewConsequenceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consequence",
		Short: "List and complete consequences",
	}
	cmd.AddCommand(newConsequenceListCommand(rootOpts))
	cmd.AddCommand(newConsequenceCompleteCommand(rootOpts))
	return cmd
}

func newConsequenceListCommand(opts *RootOptions) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the consequences a member owes or is owed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				cs, err := a.svc.ListConsequences(ctx, as)
				if err != nil {
					return err
				}
				lines := make([]string, len(cs))
				for i, c := range cs {
					lines[i] = a.consequenceLine(ctx, c)
				}
				return a.out.Success(viewConsequences(cs), joinLines(lines, "No consequences."))
			})
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "member id (required)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newConsequenceCompleteCommand(opts *RootOptions) *cobra.Command {
	var as, proof string

	cmd := &cobra.Command{
		Use:   "complete <consequence-id>",
		Short: "Mark a consequence you are owed as done",
		Long: `Mark a consequence as done. Only its target may complete it;
completing it again changes nothing.

Example:
  touchbase consequence complete 3f2a... --as bob --proof "Called on Sunday"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				c, err := a.svc.CompleteConsequence(ctx, args[0], as, proof)
				if err != nil {
					return err
				}
				return a.out.Success(consequenceView{ID: c.ID, Consequence: c},
					fmt.Sprintf("Completed: %s", a.consequenceLine(ctx, c)))
			})
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "member id of the target (required)")
	cmd.Flags().StringVar(&proof, "proof", "", "proof text")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}
