package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/touchbase/internal/engine"
	"github.com/roach88/touchbase/internal/game"
)

// NewGameCommand creates the game command group.
func NewGameCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Create and play games",
	}
	cmd.AddCommand(newGameCreateCommand(rootOpts))
	cmd.AddCommand(newGameMoveCommand(rootOpts, "guess", "Guess who contacted your opponent",
		func(ctx context.Context, s *engine.Service, gameID, as, member string) (game.Game, error) {
			return s.SubmitGuess(ctx, gameID, as, member)
		}))
	cmd.AddCommand(newGameMoveCommand(rootOpts, "reveal", "Reveal who actually contacted you",
		func(ctx context.Context, s *engine.Service, gameID, as, member string) (game.Game, error) {
			return s.SubmitActualContact(ctx, gameID, as, member)
		}))
	cmd.AddCommand(newGameCheckCommand(rootOpts))
	cmd.AddCommand(newGameShowCommand(rootOpts))
	cmd.AddCommand(newGameListCommand(rootOpts))
	return cmd
}

func newGameCreateCommand(opts *RootOptions) *cobra.Command {
	var communityID, as, opponent string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a game against another community member",
		Long: `Start a game against another community member.

Example:
  touchbase game create --community c1 --as alice --opponent bob`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				g, err := a.svc.CreateGame(ctx, communityID, as, opponent)
				if err != nil {
					return err
				}
				return a.out.Success(gameView{ID: g.ID, Game: g}, a.gameText(ctx, g))
			})
		},
	}

	cmd.Flags().StringVar(&communityID, "community", "", "community id (required)")
	cmd.Flags().StringVar(&as, "as", "", "member id of the creator, who plays player1 (required)")
	cmd.Flags().StringVar(&opponent, "opponent", "", "member id of the opponent (required)")
	_ = cmd.MarkFlagRequired("community")
	_ = cmd.MarkFlagRequired("as")
	_ = cmd.MarkFlagRequired("opponent")

	return cmd
}

type moveFunc func(ctx context.Context, s *engine.Service, gameID, as, member string) (game.Game, error)

func newGameMoveCommand(opts *RootOptions, use, short string, move moveFunc) *cobra.Command {
	var as, member string

	cmd := &cobra.Command{
		Use:   use + " <game-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				g, err := move(ctx, a.svc, args[0], as, member)
				if err != nil {
					return err
				}
				return a.out.Success(gameView{ID: g.ID, Game: g}, a.gameText(ctx, g))
			})
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "member id of the acting player (required)")
	cmd.Flags().StringVar(&member, "member", "", "member id being named (required)")
	_ = cmd.MarkFlagRequired("as")
	_ = cmd.MarkFlagRequired("member")

	return cmd
}

func newGameCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <game-id>",
		Short: "Re-evaluate a game and apply any transition it is due",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				g, err := a.svc.CheckProgress(ctx, args[0])
				if err != nil {
					return err
				}
				return a.out.Success(gameView{ID: g.ID, Game: g}, a.gameText(ctx, g))
			})
		},
	}
}

func newGameShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				g, err := a.svc.GetGame(ctx, args[0])
				if err != nil {
					return err
				}
				return a.out.Success(gameView{ID: g.ID, Game: g}, a.gameText(ctx, g))
			})
		},
	}
}

func newGameListCommand(opts *RootOptions) *cobra.Command {
	var as, filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a player's games, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := engine.ParseGameFilter(filter)
			if err != nil {
				return opts.formatter(cmd).Fail(err)
			}
			return withApp(opts, cmd, func(ctx context.Context, a *app) error {
				games, err := a.svc.ListGames(ctx, as, f)
				if err != nil {
					return err
				}
				lines := make([]string, len(games))
				for i, g := range games {
					lines[i] = a.gameLine(ctx, g)
				}
				return a.out.Success(viewGames(games), joinLines(lines, fmt.Sprintf("No %s games.", f)))
			})
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "member id of the player (required)")
	cmd.Flags().StringVar(&filter, "filter", string(engine.FilterAll), "all, active or history")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}
