package main

import (
	"log/slog"
	"os"

	"github.com/aryankumar/brogw/internal/cli"
	"github.com/aryankumar/brogw/internal/util"
)

func main() {
	// Ctrl-C stops starting new downloads, a second one exits
	ctx := util.SetupSignalHandler()

	if err := cli.Execute(ctx); err != nil {
		slog.Debug("command failed", "error", err)
		cli.PrintError(err)
		os.Exit(1)
	}
}
