package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/adminpanel/internal/buildinfo"
	"github.com/dmitrijs2005/adminpanel/internal/client/cli"
	"github.com/dmitrijs2005/adminpanel/internal/client/config"
	"github.com/dmitrijs2005/adminpanel/internal/logging"
	"github.com/dmitrijs2005/adminpanel/internal/telemetry"
)

const serviceName = "adminpanel-cli"

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	shutdown, err := telemetry.Setup(ctx, serviceName, buildinfo.Version(), cfg.OTelEndpoint)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error(ctx, "telemetry shutdown failed", "error", err)
		}
	}()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(ctx, "close failed", "error", err)
		}
	}()

	app.Run(ctx)

}
