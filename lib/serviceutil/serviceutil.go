package serviceutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext returns a context that ends on SIGINT or SIGTERM.
// Stage loops check it between fetches, so an interrupted scrape
// stops at a record boundary.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupt
		cancel()
	}()

	return ctx
}

func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}
