package main

import (
	"log/slog"
	"os"

	"github.com/ozherelyev/cinema-ticketing/internal/app"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := app.Run(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
