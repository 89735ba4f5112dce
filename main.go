package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nuts-foundation/hdsi-querytool/cmd"
	"github.com/nuts-foundation/hdsi-querytool/lib/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	configFile, err := cmd.ParseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	config, err := cmd.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Init(config.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	// Listen for interrupt signals (CTRL/CMD+C, OS instructing the process to stop) to cancel context.
	ctx, cancelFunc := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelFunc()
	if err := cmd.Start(ctx, config); err != nil {
		log.Fatal().Err(err).Msg("HDSI query tool stopped")
	}
}
