// Package main provides the entry point for the geoaddress service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/openoda/geoaddress/cmd/geoaddress/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, version, commit, date); err != nil {
		os.Exit(1)
	}
}
