package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/specvital/pyadapter/internal/cli"
)

// Version information, set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cli.New()
	c.SetVersion(version, commit, date)
	err := c.RunContext(ctx, os.Args)
	if err != nil {
		stop()
		log.Print(err)
		os.Exit(cli.ExitCode(err))
	}
}
