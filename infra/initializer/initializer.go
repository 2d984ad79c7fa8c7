// Package initializer builds the infrastructure of each binary from config.
package initializer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kbhub/txledger/infra"
	"github.com/kbhub/txledger/infra/client"
	infra_eventbus "github.com/kbhub/txledger/infra/eventbus"
	"github.com/kbhub/txledger/infra/observability"
	infra_repository "github.com/kbhub/txledger/infra/repository"
	"github.com/kbhub/txledger/pkg/app"
	"github.com/kbhub/txledger/pkg/config"
	"github.com/kbhub/txledger/pkg/eventbus"
	"github.com/kbhub/txledger/pkg/servicetoken"
)

// Service names double as token subjects and audiences.
const (
	ServiceCore        = "ms-core"
	ServiceCustomer    = client.CustomerService
	ServiceTransaction = client.TransactionService
)

// Dependencies is everything one binary needs. Fields a binary does not
// use stay nil.
type Dependencies struct {
	App          *app.Deps
	Metrics      *observability.Metrics
	Verifier     *servicetoken.Verifier
	Customers    *client.CustomerClient
	Transactions *client.TransactionClient

	closers []func() error
}

// Close releases connections opened by the initializer.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

// InitializeDependencies wires the infrastructure of service.
func InitializeDependencies(cfg *config.App, service string) (*Dependencies, error) {
	logger := SetupLogger(cfg.Log, service)
	return initialize(cfg, service, logger)
}

func initialize(cfg *config.App, service string, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		App:     &app.Deps{Logger: logger},
		Metrics: observability.NewMetrics(service),
	}
	if err := wire(deps, cfg, service, logger); err != nil {
		_ = deps.Close()
		return nil, err
	}
	return deps, nil
}

func wire(deps *Dependencies, cfg *config.App, service string, logger *slog.Logger) error {
	secret := []byte(cfg.ServiceAuth.Secret)
	if len(secret) == 0 {
		return errors.New("service auth secret is not set")
	}
	issuer := servicetoken.NewIssuer(service, secret, cfg.ServiceAuth.TokenTTL)

	switch service {
	case ServiceCore:
		deps.Customers = client.NewCustomerClient(
			cfg.Clients.CustomerURL,
			servicetoken.NewSource(issuer, ServiceCustomer),
			cfg.Clients.Timeout,
			logger,
		)
		deps.Transactions = client.NewTransactionClient(
			cfg.Clients.TransactionURL,
			servicetoken.NewSource(issuer, ServiceTransaction),
			cfg.Clients.Timeout,
			logger,
		)
		return nil

	case ServiceCustomer, ServiceTransaction:
		deps.Verifier = servicetoken.NewVerifier(service, secret, cfg.ServiceAuth.AllowedServices)

		dbCfg := *cfg.DB
		dbCfg.Url = cfg.DB.URLFor(service)
		db, err := infra.NewDBConnection(&dbCfg, cfg.Env)
		if err != nil {
			logger.Error("Failed to initialize database", "error", err)
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			deps.closers = append(deps.closers, sqlDB.Close)
		}
		deps.App.Uow = infra_repository.NewUoW(db)

		if service == ServiceTransaction {
			bus, err := initEventBus(cfg, logger)
			if err != nil {
				return err
			}
			if c, ok := bus.(interface{ Close() error }); ok {
				deps.closers = append(deps.closers, c.Close)
			}
			deps.App.EventBus = bus
			deps.App.Metrics = deps.Metrics
			deps.Customers = client.NewCustomerClient(
				cfg.Clients.CustomerURL,
				servicetoken.NewSource(issuer, ServiceCustomer),
				cfg.Clients.Timeout,
				logger,
			)
			deps.App.Balance = deps.Customers
		}
		return nil

	default:
		return fmt.Errorf("unknown service %q", service)
	}
}

// initEventBus picks the bus by driver. A broker that cannot be reached is
// replaced by the in-memory bus: events are best-effort and must not keep
// the service from starting.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	driver := "memory"
	if cfg.EventBus != nil && cfg.EventBus.Driver != "" {
		driver = strings.ToLower(cfg.EventBus.Driver)
	}

	switch driver {
	case "memory":
		return infra_eventbus.NewWithMemory(logger), nil
	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, errors.New("redis event bus requires REDIS_URL")
		}
		bus, err := infra_eventbus.NewWithRedis(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis event bus unavailable; falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	case "kafka":
		if cfg.Kafka == nil || cfg.Kafka.Brokers == "" {
			return nil, errors.New("kafka event bus requires KAFKA_BROKERS")
		}
		bus, err := infra_eventbus.NewWithKafka(cfg.Kafka, logger)
		if err != nil {
			logger.Warn("Kafka event bus unavailable; falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown event bus driver %q", driver)
	}
}
