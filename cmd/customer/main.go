package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"
	"github.com/kbhub/txledger/infra/initializer"
	"github.com/kbhub/txledger/pkg/app"
	"github.com/kbhub/txledger/pkg/config"
	"github.com/kbhub/txledger/webapi"
)

const defaultPort = 3001

// @title Customer Service API
// @version 1.0.0
// @description Customers and their balances.
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
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

	deps, err := initializer.InitializeDependencies(cfg, initializer.ServiceCustomer)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close() //nolint:errcheck

	a := app.New(deps.App, cfg)
	fiberApp := webapi.SetupCustomerApp(a.CustomerService, deps.Verifier, webapi.Options{
		Service:   initializer.ServiceCustomer,
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
