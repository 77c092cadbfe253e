package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/benpate/derp"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		derp.Report(err)
		os.Exit(1)
	}
}
