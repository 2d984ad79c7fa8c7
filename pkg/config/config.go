package config

import (
	"fmt"
	"time"
)

type DB struct {
	Url             string        `envconfig:"URL"`
	AutoMigrate     bool          `envconfig:"AUTO_MIGRATE" default:"true"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
}

// URLFor returns the configured database URL, falling back to a SQLite file
// named after service so that services never share a store by default.
func (d *DB) URLFor(service string) string {
	if d.Url != "" {
		return d.Url
	}
	return fmt.Sprintf("sqlite://%s.db", service)
}

// ServiceAuth configures the service-to-service credential. The secret is
// shared by every service; the allow-list names the callers a service trusts.
type ServiceAuth struct {
	Secret          string        `envconfig:"SECRET" required:"true"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL" default:"5m"`
	AllowedServices []string      `envconfig:"ALLOWED_SERVICES" default:"ms-core,ms-transaction,ms-customer"`
}

type Clients struct {
	CustomerURL    string        `envconfig:"CUSTOMER_URL" default:"http://localhost:3001"`
	TransactionURL string        `envconfig:"TRANSACTION_URL" default:"http://localhost:3002"`
	Timeout        time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

type EventBus struct {
	Driver string `envconfig:"DRIVER" default:"memory"`
}

type Redis struct {
	URL    string `envconfig:"URL" default:"redis://localhost:6379/0"`
	Stream string `envconfig:"STREAM" default:"txledger:events"`
	Group  string `envconfig:"GROUP" default:"txledger"`
}

type Kafka struct {
	Brokers     string `envconfig:"BROKERS" default:"localhost:9092"`
	GroupID     string `envconfig:"GROUP_ID" default:"txledger"`
	TopicPrefix string `envconfig:"TOPIC_PREFIX" default:"txledger.events"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Reconciliation struct {
	StaleAfter time.Duration `envconfig:"STALE_AFTER" default:"15m"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[txledger]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT"`
}

// Addr returns the listen address, falling back to defaultPort when no
// port is configured.
func (s *Server) Addr(defaultPort int) string {
	port := s.Port
	if port == 0 {
		port = defaultPort
	}
	return fmt.Sprintf(":%d", port)
}

type App struct {
	Env            string          `envconfig:"APP_ENV" default:"development"`
	Server         *Server         `envconfig:"SERVER"`
	Log            *Log            `envconfig:"LOG"`
	DB             *DB             `envconfig:"DATABASE"`
	ServiceAuth    *ServiceAuth    `envconfig:"SERVICE_AUTH"`
	Clients        *Clients        `envconfig:"CLIENTS"`
	RateLimit      *RateLimit      `envconfig:"RATE_LIMIT"`
	EventBus       *EventBus       `envconfig:"EVENT_BUS"`
	Redis          *Redis          `envconfig:"REDIS"`
	Kafka          *Kafka          `envconfig:"KAFKA"`
	Reconciliation *Reconciliation `envconfig:"RECONCILIATION"`
}
