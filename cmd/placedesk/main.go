// Command placedesk is the placement office console.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/placedesk/placedesk/internal/cli"
	"github.com/placedesk/placedesk/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(extractExitCode(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(version.GetVersion()).ExecuteContext(ctx)
}

// extractExitCode maps err to the process exit code: 0 for nil, the code of a
// BatchExitError anywhere in the chain, and 1 otherwise.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var batchErr *cli.BatchExitError
	if errors.As(err, &batchErr) {
		return batchErr.ExitCode
	}
	return 1
}
