package cli

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFunc func(cmd *cobra.Command, args []string) error

// withLogging logs every command run: name, outcome and duration. Arguments are never logged.
func withLogging(log func() *zap.Logger, next runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		err := next(cmd, args)

		outcome := "ok"
		if err != nil {
			outcome = err.Error()
		}
		log().Debug("command",
			zap.String("cmd", cmd.CommandPath()),
			zap.String("outcome", outcome),
			zap.Duration("dur", time.Since(start)),
		)
		return err
	}
}

// withRecover turns a panic inside a command into an ExitError.
func withRecover(log func() *zap.Logger, next runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log().Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("cmd", cmd.CommandPath()),
				)
				err = &ExitError{Code: exitRuntime, Message: "internal error", Err: fmt.Errorf("panic: %v", r)}
			}
		}()
		return next(cmd, args)
	}
}

// wrap applies the standard middleware chain and maps errors to exit codes.
func (r *runtime) wrap(next runFunc) runFunc {
	mapped := func(cmd *cobra.Command, args []string) error {
		return toExit(next(cmd, args))
	}
	return withRecover(r.logger, withLogging(r.logger, mapped))
}
