package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/touchbase/internal/community"
	"github.com/roach88/touchbase/internal/engine"
	"github.com/roach88/touchbase/internal/game"
	"github.com/roach88/touchbase/internal/names"
	"github.com/roach88/touchbase/internal/schema"
	"github.com/roach88/touchbase/internal/store"
)

// app is the per-command session: one store, the services over it and the
// display-name cache for the session.
type app struct {
	store  *store.Store
	dir    *community.Directory
	svc    *engine.Service
	users  *names.Users
	names  *names.Cache
	logger *slog.Logger
	out    *OutputFormatter
}

// newLogger returns a text logger on w at info level, or debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openApp opens the database and wires the services for one command.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	v, err := schema.New()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load schema", err)
	}

	logger.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database,
		store.WithValidator(v.Validate),
		store.WithPollInterval(opts.Config.PollInterval))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	dir := community.NewDirectory(st)
	users := names.NewUsers(st)
	cache, err := names.New(users, opts.Config.NameCacheSize)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to create name cache", err)
	}

	svc := engine.New(st, dir,
		engine.WithLogger(logger),
		engine.WithBotDetector(game.PrefixDetector(opts.Config.BotPrefix)),
		engine.WithMaxTxAttempts(opts.Config.TxAttempts))

	return &app{
		store:  st,
		dir:    dir,
		svc:    svc,
		users:  users,
		names:  cache,
		logger: logger,
		out:    opts.formatter(cmd),
	}, nil
}

// Close ends the session: the name cache is dropped and the database closed.
func (a *app) Close() {
	a.names.Invalidate()
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

// withApp runs fn in a fresh session and reports its error through the
// formatter.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(cmd.Context(), a); err != nil {
		return a.out.Fail(err)
	}
	return nil
}

// name renders a member id with its display name, when it has one.
func (a *app) name(ctx context.Context, memberID string) string {
	n, err := a.names.Name(ctx, memberID)
	if err != nil {
		a.logger.Debug("display name lookup failed", "member", memberID, "error", err)
	}
	if n == "" || n == memberID {
		return memberID
	}
	return fmt.Sprintf("%s (%s)", n, memberID)
}
