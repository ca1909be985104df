// Command jobboard browses job listings and manages a local job-board account.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/and161185/jobboard/internal/cli"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, os.Args[1:], cli.Options{
		Version: fmt.Sprintf("%s (%s)", version, buildDate),
	})
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		stop()
		os.Exit(exitErr.Code)
	}
	stop()
	os.Exit(1)
}
