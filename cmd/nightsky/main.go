// Command nightsky renders, serves and inspects force-directed night sky
// graphs. Run "nightsky --help" for the command list.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gincla/nightsky/internal/cli"
	skyerrors "github.com/gincla/nightsky/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()
	os.Exit(exitCode(err, interrupted))
}

// exitCode is 130 for an interrupt, as shells report for SIGINT, 1 for any
// other failure and 0 otherwise.
func exitCode(err error, interrupted bool) int {
	switch {
	case interrupted || errors.Is(err, context.Canceled):
		return 130
	case err != nil:
		fmt.Fprintln(os.Stderr, skyerrors.UserMessage(err))
		return 1
	}
	return 0
}
