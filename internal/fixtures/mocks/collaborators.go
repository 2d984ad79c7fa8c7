package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/events"
	"github.com/kbhub/txledger/pkg/eventbus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockBalanceAdjuster is a mock of the balance store contract.
type MockBalanceAdjuster struct {
	mock.Mock
}

func NewMockBalanceAdjuster(t cleanuper) *MockBalanceAdjuster {
	m := &MockBalanceAdjuster{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBalanceAdjuster) AdjustBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) error {
	return m.Called(ctx, customerID, delta).Error(0)
}

// RecordingBus is an eventbus.Bus that keeps emitted events and dispatches
// them synchronously. Err, when set, is returned from Emit after recording.
type RecordingBus struct {
	mu       sync.Mutex
	Err      error
	emitted  []events.Event
	handlers map[events.EventType][]eventbus.HandlerFunc
}

func (b *RecordingBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[events.EventType][]eventbus.HandlerFunc)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

func (b *RecordingBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	b.emitted = append(b.emitted, event)
	handlers := b.handlers[events.EventType(event.Type())]
	b.mu.Unlock()
	for _, h := range handlers {
		_ = h(ctx, event)
	}
	return b.Err
}

// Emitted returns a copy of the emitted events.
func (b *RecordingBus) Emitted() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.emitted...)
}

var _ eventbus.Bus = (*RecordingBus)(nil)
