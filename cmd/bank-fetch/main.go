package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/bank-transactions-client/pkg/pagination"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// reportError prints errors that were not already logged. Fetch failures are
// logged by the transactions command.
func reportError(w io.Writer, err error) {
	if pagination.KindOf(err) != "" {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
