package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"
	"github.com/kbhub/txledger/infra/initializer"
	"github.com/kbhub/txledger/pkg/config"
	"github.com/kbhub/txledger/webapi"
)

const defaultPort = 3000

// @title Transaction Ledger Gateway
// @version 1.0.0
// @description Public entry point for customers and transactions.
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg, initializer.ServiceCore)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close() //nolint:errcheck

	fiberApp := webapi.SetupGatewayApp(deps.Customers, deps.Transactions, webapi.Options{
		Service:   initializer.ServiceCore,
		RateLimit: cfg.RateLimit,
		Metrics:   deps.Metrics,
		Logger:    deps.App.Logger,
		AccessLog: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Addr(defaultPort)
	deps.App.Logger.Info("Starting server", "env", cfg.Env, "address", addr)
	return webapi.Serve(ctx, fiberApp, addr)
}
