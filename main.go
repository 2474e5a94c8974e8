package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ellavondegurechaff/foodgram/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := cmd.Execute(context.Background(), version, commit); err != nil {
		slog.Error("Command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
