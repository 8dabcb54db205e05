package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context that is cancelled on the first SIGINT or SIGTERM.
// Running downloads use it to stop starting new wells and let in-flight ones finish.
// A second signal exits immediately.
func SetupSignalHandler() context.Context {
	return notifyContext(context.Background(), func(code int) { os.Exit(code) })
}

func notifyContext(parent context.Context, exit func(code int)) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received interrupt, finishing in-flight work", "signal", sig.String())
		cancel()

		sig = <-sigCh
		slog.Warn("received second interrupt, exiting", "signal", sig.String())
		signal.Stop(sigCh)
		exit(130)
	}()

	return ctx
}
