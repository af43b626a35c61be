package main

import (
	"context"
	"log/slog"
	"os"

	"fulfillment/cmd"

	"github.com/labstack/gommon/log"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := cmd.NewRootCommand(logger).ExecuteContext(context.Background()); err != nil {
		log.Fatalf("fulfillment: %v", err)
	}
}
