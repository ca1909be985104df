// Package cli implements the jobboard command line and interactive shell.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/jobboard/internal/app"
	"github.com/and161185/jobboard/internal/clock"
	"github.com/and161185/jobboard/internal/config"
	"github.com/and161185/jobboard/internal/errs"
	"github.com/and161185/jobboard/internal/limiter"
	"github.com/and161185/jobboard/internal/logging"
	"github.com/and161185/jobboard/internal/model"
	"github.com/and161185/jobboard/internal/session"
)

// skipApp marks commands that run without opening the store.
const skipApp = "jobboard/skip-app"

// Options configures Execute. Zero values select the process defaults.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Prompter reads credentials for one-shot commands.
	Prompter Prompter
	// NewLineReader opens the shell input. Defaults to liner.
	NewLineReader func() LineReader
	// Clock overrides the time source.
	Clock clock.Clock
	// Version is printed by --version.
	Version string
}

// runtime is the state shared by a root command and, in the shell, by every nested command.
type runtime struct {
	opts     Options
	app      *app.App
	log      *zap.Logger
	prompter Prompter

	inShell  bool
	out      io.Writer // shell output, safe for timer callbacks
	teardown func()
	sweeper  *limiter.Sweeper
}

// Execute runs the command line in args and releases every resource it opened.
func Execute(ctx context.Context, args []string, opts Options) error {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.NewLineReader == nil {
		opts.NewLineReader = newLinerReader
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	r := &runtime{opts: opts, prompter: opts.Prompter}
	if r.prompter == nil {
		r.prompter = newStreamPrompter(opts.Stdin, opts.Stdout)
	}

	root := r.newRoot()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := r.close(ctx); cerr != nil && err == nil {
		err = cerr
	}

	var ee *ExitError
	if err != nil && !errors.As(err, &ee) {
		// flag and argument errors from cobra
		err = &ExitError{Code: exitUsage, Message: err.Error(), Err: err}
	}
	return err
}

func (r *runtime) newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "jobboard",
		Short: "Browse jobs and manage a local job-board account",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           r.opts.Version,
		PersistentPreRunE: r.setup,
	}
	root.SetIn(r.opts.Stdin)
	root.SetOut(r.opts.Stdout)
	root.SetErr(r.opts.Stderr)
	root.SetVersionTemplate(fmt.Sprintf("jobboard version %s\n", r.opts.Version))
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		r.newRegisterCmd(),
		r.newLoginCmd(),
		r.newLogoutCmd(),
		r.newWhoamiCmd(),
		r.newJobsCmd(),
		r.newApplyCmd(),
		r.newApplicationsCmd(),
		r.newFAQCmd(),
		r.newPasswordCmd(),
		r.newStatsCmd(),
	)
	if !r.inShell {
		root.AddCommand(r.newShellCmd())
	}
	return root
}

// setup builds the App once per runtime.
func (r *runtime) setup(cmd *cobra.Command, _ []string) error {
	if r.app != nil || cmd.Annotations[skipApp] != "" {
		return nil
	}
	cfg, err := config.FromFlags(cmd.Flags())
	if err != nil {
		return exitError(exitUsage, "invalid configuration: %v", err)
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Dev, r.opts.Stderr)
	if err != nil {
		return exitError(exitUsage, "%v", err)
	}

	var appOpts []app.Option
	if r.opts.Clock != nil {
		appOpts = append(appOpts, app.WithClock(r.opts.Clock))
	}
	a, err := app.New(cmd.Context(), cfg, log, appOpts...)
	if err != nil {
		return &ExitError{Code: exitRuntime, Message: fmt.Sprintf("cannot open store: %v", err), Err: err}
	}
	r.app, r.log = a, log
	return nil
}

func (r *runtime) logger() *zap.Logger {
	if r.log == nil {
		return zap.NewNop()
	}
	return r.log
}

func (r *runtime) close(ctx context.Context) error {
	if r.teardown != nil {
		r.teardown()
		r.teardown = nil
	}
	if r.sweeper != nil {
		r.sweeper.Stop()
		r.sweeper = nil
	}
	if r.app == nil {
		return nil
	}
	err := r.app.Close(ctx)
	_ = r.log.Sync()
	r.app = nil
	return err
}

// track (re)starts idle tracking for the current user.
func (r *runtime) track(ctx context.Context) {
	if r.teardown != nil {
		r.teardown()
	}
	var onWarning func(int)
	if r.inShell {
		out := r.out
		onWarning = func(remaining int) {
			fmt.Fprintf(out, "\nYour session will expire in %d seconds due to inactivity. Press Enter to stay signed in.\n", remaining)
		}
	}
	r.teardown = r.app.Session.Init(ctx, onWarning)
}

// requireUser returns the logged-in user of a live session. Every call counts as activity.
func (r *runtime) requireUser(ctx context.Context) (model.User, error) {
	if _, ok := r.app.Auth.CurrentUser(ctx); !ok {
		return model.User{}, errs.ErrUnauthorized
	}
	if r.app.Session.State() == session.Active {
		r.app.Session.Extend(ctx)
	} else {
		r.track(ctx)
		if r.app.Session.State() == session.Expired {
			return model.User{}, errs.ErrSessionExpired
		}
	}

	u, err := r.app.Auth.VerifySession(ctx)
	if err != nil {
		r.app.Session.End(ctx)
		return model.User{}, err
	}
	return u, nil
}
