package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/shopfront/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type panickingHandler struct{}

func (panickingHandler) Handle(context.Context, shared.DomainEvent) error { panic("boom") }
func (panickingHandler) EventTypes() []string                           { return []string{"order.placed"} }

func TestInMemoryEventBus_PublishRoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	placed := testutil.NewMockEventHandler("order.placed")
	changed := testutil.NewMockEventHandler("order.status_changed")
	bus.Subscribe(placed)
	bus.Subscribe(changed)

	err := bus.Publish(context.Background(),
		testutil.NewTestEvent("order.placed"),
		testutil.NewTestEvent("order.placed"),
		testutil.NewTestEvent("order.status_changed"),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, placed.HandledCount())
	assert.Equal(t, 1, changed.HandledCount())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := testutil.NewMockEventHandler("order.placed")
	bus.Subscribe(h, "coupon.redeemed")

	_ = bus.Publish(context.Background(), testutil.NewTestEvent("order.placed"))
	_ = bus.Publish(context.Background(), testutil.NewTestEvent("coupon.redeemed"))

	require.Equal(t, 1, h.HandledCount())
	assert.Equal(t, "coupon.redeemed", h.Handled()[0].EventType())
}

func TestInMemoryEventBus_HandlerErrorsDoNotStopDelivery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := testutil.NewMockEventHandler("order.placed")
	failing.SetError(errors.New("mail server down"))
	healthy := testutil.NewMockEventHandler("order.placed")
	bus.Subscribe(panickingHandler{})
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), testutil.NewTestEvent("order.placed"))
	require.NoError(t, err)

	assert.Equal(t, 1, failing.HandledCount())
	assert.Equal(t, 1, healthy.HandledCount())
	assert.Equal(t, 2, logs.FilterMessage("handler failed to process event").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := testutil.NewMockEventHandler("order.placed")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	_ = bus.Publish(context.Background(), testutil.NewTestEvent("order.placed"))
	assert.Zero(t, h.HandledCount())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	assert.False(t, bus.IsRunning())

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.IsRunning())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.IsRunning())
}

func TestInMemoryEventBus_ConcurrentPublish(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := testutil.NewMockEventHandler("order.placed")
	bus.Subscribe(h)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), testutil.NewTestEvent("order.placed"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, h.HandledCount())
}

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	specific := testutil.NewMockEventHandler()
	all := testutil.NewMockEventHandler()

	r.Register(specific, "order.placed", "order.status_changed")
	r.Register(all)

	handlers := r.GetHandlers("order.placed")
	require.Len(t, handlers, 2)
	assert.Same(t, specific, handlers[0])
	assert.Same(t, all, handlers[1])
	assert.Len(t, r.GetHandlers("stock.level_changed"), 1)
	assert.Equal(t, 2, r.Count())

	r.Unregister(specific)
	assert.Len(t, r.GetHandlers("order.placed"), 1)
	assert.Equal(t, 1, r.Count())
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(0)
	defer store.Close()

	inner := testutil.NewMockEventHandler("order.placed")
	h := NewIdempotentHandler(inner, store, shared.DefaultIdempotencyConfig(), nil)
	assert.Equal(t, []string{"order.placed"}, h.EventTypes())

	evt := testutil.NewTestEvent("order.placed")
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), testutil.NewTestEvent("order.placed")))

	assert.Equal(t, 2, inner.HandledCount())
	stats := h.Stats()
	assert.Equal(t, int64(2), stats.EventsProcessed)
	assert.Equal(t, int64(1), stats.EventsDuplicate)
}

func TestIdempotentHandler_RetriesAfterFailure(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(0)
	defer store.Close()

	inner := testutil.NewMockEventHandler("order.placed")
	inner.SetError(errors.New("temporary"))
	h := NewIdempotentHandler(inner, store, shared.DefaultIdempotencyConfig(), nil)

	evt := testutil.NewTestEvent("order.placed")
	assert.Error(t, h.Handle(context.Background(), evt))

	inner.SetError(nil)
	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Equal(t, 2, inner.HandledCount())
	assert.Equal(t, int64(1), h.Stats().EventsFailed)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	inner := testutil.NewMockEventHandler("order.placed")
	h := NewIdempotentHandler(inner, nil, shared.IdempotencyConfig{Enabled: true}, nil)

	evt := testutil.NewTestEvent("order.placed")
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Equal(t, 2, inner.HandledCount())
}
