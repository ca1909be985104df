package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/jobboard/internal/events"
	"github.com/and161185/jobboard/internal/session"
)

func (r *runtime) newShellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell with idle session tracking",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = r.wrap(r.runShell)
	return cmd
}

func (r *runtime) runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := &syncWriter{w: cmd.OutOrStdout()}

	lr := r.opts.NewLineReader()
	defer lr.Close()

	sw, err := r.app.StartSweeper()
	if err != nil {
		return err
	}
	r.sweeper = sw

	unsubscribe := r.app.Bus.Subscribe(func(e events.Event) {
		if e.Kind == events.SessionTimeout {
			fmt.Fprintln(out, "\nYour session has expired due to inactivity. Please log in again.")
		}
	})
	defer unsubscribe()

	r.inShell, r.out = true, out
	defer func() { r.inShell, r.out = false, nil }()
	prev := r.prompter
	r.prompter = lr
	defer func() { r.prompter = prev }()

	if u, ok := r.app.Auth.CurrentUser(ctx); ok {
		r.track(ctx)
		if r.app.Session.State() == session.Active {
			fmt.Fprintf(out, "Signed in as %s.\n", u.Email)
		}
	}
	fmt.Fprintln(out, `Type "help" for commands, "exit" to quit.`)

	for {
		line, err := lr.Line(r.prompt(ctx))
		if isAbort(err) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
		// every submitted line is user activity
		r.app.Activity.Emit(session.KeyDown)

		args, perr := splitArgs(line)
		if perr != nil {
			fmt.Fprintf(out, "Error: %v\n", perr)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if !secretArgs(args) {
			lr.AppendHistory(line)
		}

		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}
		if err := r.dispatch(ctx, args, out); err != nil {
			fmt.Fprintf(out, "Error: %s\n", message(err))
			r.logger().Debug("shell command failed", zap.String("cmd", args[0]), zap.Error(err))
		}
	}
}

// dispatch runs one shell line on a fresh command tree sharing this runtime.
func (r *runtime) dispatch(ctx context.Context, args []string, out io.Writer) error {
	root := r.newRoot()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func message(err error) string {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Message
	}
	return err.Error()
}

func (r *runtime) prompt(ctx context.Context) string {
	if u, ok := r.app.Auth.CurrentUser(ctx); ok && r.app.Session.State() == session.Active {
		return u.Email + "> "
	}
	return "jobboard> "
}

// splitArgs splits a shell line on whitespace, honoring single and double quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, c := range line {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteRune(c)
			}
		case c == '"' || c == '\'':
			quote = c
			inArg = true
		case c == ' ' || c == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(c)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

// secretArgs reports whether a shell line carries a password in plain text.
func secretArgs(args []string) bool {
	return len(args) >= 2 && args[0] == "password" && args[1] == "check"
}

// syncWriter serializes writes from timer callbacks and the shell loop.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
