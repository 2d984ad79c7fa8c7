package testutils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	infrarepo "github.com/kbhub/txledger/infra/repository"
	"github.com/kbhub/txledger/pkg/servicetoken"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresEnv enables the container-backed Postgres tests when set.
const PostgresEnv = "TXLEDGER_POSTGRES_TESTS"

// BrokerEnv enables the container-backed Redis and Kafka event bus tests.
const BrokerEnv = "TXLEDGER_BROKER_TESTS"

// ServiceSecret is the shared service credential secret used in tests.
const ServiceSecret = "an-adequately-long-test-secret"

// AllowedServices is the caller allow-list used in tests.
var AllowedServices = []string{"ms-core", "ms-transaction", "ms-customer"}

// ServiceToken issues a token from caller to audience signed with ServiceSecret.
func ServiceToken(tb testing.TB, caller, audience string) string {
	tb.Helper()
	token, _, err := servicetoken.NewIssuer(caller, []byte(ServiceSecret), time.Minute).Issue(audience)
	if err != nil {
		tb.Fatalf("issue service token: %v", err)
	}
	return token
}

// NewVerifier returns the verifier of service for tokens signed with ServiceSecret.
func NewVerifier(service string) *servicetoken.Verifier {
	return servicetoken.NewVerifier(service, []byte(ServiceSecret), AllowedServices)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewSQLiteDB opens a private in-memory SQLite database with every table migrated.
func NewSQLiteDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(infrarepo.Models()...); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// NewPostgresDB starts a Postgres container and returns a migrated connection.
// The test is skipped unless PostgresEnv is set.
func NewPostgresDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if os.Getenv(PostgresEnv) == "" {
		tb.Skipf("set %s to run Postgres container tests", PostgresEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("txledger"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		tb.Fatalf("start postgres container: %v", err)
	}
	tb.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("postgres connection string: %v", err)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		tb.Fatalf("open postgres: %v", err)
	}
	if err := db.AutoMigrate(infrarepo.Models()...); err != nil {
		tb.Fatalf("migrate postgres: %v", err)
	}
	return db
}

// MakeRequestWithApp sends a request through app.Test. token, when set, is
// sent as a bearer credential.
func MakeRequestWithApp(app *fiber.App, method, path, body, token string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err)
	}
	return resp
}
