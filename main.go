package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"github.com/turbot/bqpipe/internal/cmd"
	"github.com/turbot/bqpipe/internal/config"
	"github.com/turbot/bqpipe/internal/log"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/go-kit/helpers"
)

var (
	// These variables will be set by GoReleaser. We have them in main package because we put everything else in internal
	version = "0.0.1-local.1"
	commit  = "none"
	date    = "unknown"
	builtBy = "local"
)

func main() {
	// Create a single, global context for the application
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			err := helpers.ToError(r)
			cmd.ShowError(ctx, err)
			os.Exit(perr.GetExitCode(err, true))
		}
	}()

	log.SetDefaultLogger()
	config.Initialize()

	viper.SetDefault("main.version", version)
	viper.SetDefault("main.commit", commit)
	viper.SetDefault("main.date", date)
	viper.SetDefault("main.builtBy", builtBy)

	// Run the CLI
	cmd.RunCLI(ctx)
}
