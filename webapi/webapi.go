// Package webapi builds the Fiber apps of the three services:
//   - transaction: transaction submission and queries (ms-transaction)
//   - customer: customers and the balance store (ms-customer)
//   - gateway: public façade over both (ms-core)
package webapi

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/kbhub/txledger/infra/observability"
	"github.com/kbhub/txledger/pkg/config"
	"github.com/kbhub/txledger/pkg/middleware"
	customersvc "github.com/kbhub/txledger/pkg/service/customer"
	txsvc "github.com/kbhub/txledger/pkg/service/transaction"
	"github.com/kbhub/txledger/pkg/servicetoken"
	"github.com/kbhub/txledger/webapi/common"
	customerweb "github.com/kbhub/txledger/webapi/customer"
	"github.com/kbhub/txledger/webapi/gateway"
	transactionweb "github.com/kbhub/txledger/webapi/transaction"

	_ "github.com/kbhub/txledger/docs"
)

// Options configures the middleware shared by every app.
type Options struct {
	Service   string
	RateLimit *config.RateLimit
	Metrics   *observability.Metrics
	Logger    *slog.Logger
	// AccessLog enables the request logger middleware.
	AccessLog bool
}

// SetupTransactionApp builds the transaction service app.
func SetupTransactionApp(svc *txsvc.Service, verifier *servicetoken.Verifier, opts Options) *fiber.App {
	app := newApp(opts)
	transactionweb.Routes(app, svc, middleware.ServiceAuth(verifier, opts.logger()))
	return app
}

// SetupCustomerApp builds the customer service app.
func SetupCustomerApp(svc *customersvc.Service, verifier *servicetoken.Verifier, opts Options) *fiber.App {
	app := newApp(opts)
	customerweb.Routes(app, svc, middleware.ServiceAuth(verifier, opts.logger()))
	return app
}

// SetupGatewayApp builds the public gateway app.
func SetupGatewayApp(customers gateway.CustomerAPI, transactions gateway.TransactionAPI, opts Options) *fiber.App {
	app := newApp(opts)
	gateway.Routes(app, customers, transactions)
	return app
}

func newApp(opts Options) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName:      opts.Service,
		ErrorHandler: common.ErrorHandler,
	})
	fiberApp.Use(recover.New())

	if opts.RateLimit != nil && opts.RateLimit.MaxRequests > 0 {
		// Uses X-Forwarded-For header when behind a proxy,
		// then X-Real-IP, then the direct IP.
		fiberApp.Use(limiter.New(limiter.Config{
			Max:          opts.RateLimit.MaxRequests,
			Expiration:   opts.RateLimit.Window,
			KeyGenerator: clientKey,
			LimitReached: func(c *fiber.Ctx) error {
				return common.ProblemDetailsJSON(
					c,
					"Too Many Requests",
					errors.New("rate limit exceeded"),
					"Rate limit exceeded",
					fiber.StatusTooManyRequests,
				)
			},
		}))
	}
	if opts.AccessLog {
		fiberApp.Use(logger.New(logger.Config{
			Format:     "${time} ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: time.RFC3339,
		}))
	}
	if opts.Metrics != nil {
		fiberApp.Use(opts.Metrics.Middleware())
		fiberApp.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(opts.Service + " is running")
	})
	return fiberApp
}

func clientKey(c *fiber.Ctx) string {
	if forwardedFor := c.Get(fiber.HeaderXForwardedFor); forwardedFor != "" {
		if first, _, found := strings.Cut(forwardedFor, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Serve listens on addr until ctx is done, then shuts the app down.
func Serve(ctx context.Context, app *fiber.App, addr string) error {
	errCh := make(chan error, 1)
	go func() { errCh <- app.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	}
}
