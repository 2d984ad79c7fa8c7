package eventbus

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/kbhub/txledger/pkg/config"
	"github.com/kbhub/txledger/pkg/domain/events"
	"github.com/kbhub/txledger/pkg/testutils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisBus starts a Redis container and returns a bus connected to it.
func setupRedisBus(tb testing.TB) (*RedisEventBus, *config.Redis) {
	tb.Helper()
	if os.Getenv(testutils.BrokerEnv) == "" {
		tb.Skipf("set %s to run Redis container tests", testutils.BrokerEnv)
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.0.5",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		tb.Fatalf("start redis container: %v", err)
	}
	tb.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(tb, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(tb, err)

	cfg := &config.Redis{
		URL:    "redis://" + host + ":" + port.Port(),
		Stream: "txledger:test-events",
		Group:  "txledger-test",
	}
	bus, err := NewWithRedis(cfg, testutils.DiscardLogger())
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = bus.Close() })
	return bus, cfg
}

func TestRedisBusDeliversEvent(t *testing.T) {
	bus, _ := setupRedisBus(t)

	received := make(chan *events.TransactionFinalized, 1)
	bus.Register(events.EventTypeTransactionFinalized, func(ctx context.Context, e events.Event) error {
		received <- e.(*events.TransactionFinalized)
		return nil
	})

	evt := finalizedEvent()
	require.NoError(t, bus.Emit(context.Background(), evt))

	select {
	case got := <-received:
		assert.Equal(t, evt.TransactionID, got.TransactionID)
		assert.Equal(t, evt.Status, got.Status)
	case <-time.After(10 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestRedisBusMovesFailedEventsToDLQ(t *testing.T) {
	bus, cfg := setupRedisBus(t)

	bus.Register(events.EventTypeTransactionFinalized, func(ctx context.Context, e events.Event) error {
		return errors.New("handler failed")
	})
	require.NoError(t, bus.Emit(context.Background(), finalizedEvent()))

	opt, err := redis.ParseURL(cfg.URL)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer func() { _ = client.Close() }()

	assert.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), cfg.Stream+"-DLQ").Result()
		return err == nil && n == 1
	}, 10*time.Second, 100*time.Millisecond)
}

func TestNewWithRedisValidatesConfig(t *testing.T) {
	_, err := NewWithRedis(&config.Redis{}, testutils.DiscardLogger())
	assert.Error(t, err)

	_, err = NewWithRedis(&config.Redis{URL: "::bad", Stream: "s", Group: "g"}, testutils.DiscardLogger())
	assert.Error(t, err)
}
