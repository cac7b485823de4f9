package messaging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treebjj/academy-hub/internal/domain/shared"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultConfig())
	defer bus.Close()

	var got []string
	err := bus.Subscribe(shared.EventStudentsChanged, func(e shared.Event) error {
		got = append(got, string(e.EventType()))
		return nil
	})
	assert.NoError(t, err)

	event := shared.NewCollectionChangedEvent(shared.EventStudentsChanged, "students", "local")
	assert.NoError(t, bus.Publish(event))
	assert.Equal(t, []string{string(shared.EventStudentsChanged)}, got)
}

func TestPublishSkipsOtherEventTypes(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultConfig())
	defer bus.Close()

	called := false
	bus.Subscribe(shared.EventPlansChanged, func(e shared.Event) error {
		called = true
		return nil
	})

	bus.Publish(shared.NewCollectionChangedEvent(shared.EventStudentsChanged, "students", "local"))
	assert.False(t, called)
}

func TestSubscribeAll(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultConfig())
	defer bus.Close()

	count := 0
	bus.SubscribeAll(func(e shared.Event) error {
		count++
		return nil
	})

	bus.Publish(shared.NewCollectionChangedEvent(shared.EventStudentsChanged, "students", "local"))
	bus.Publish(shared.NewCollectionChangedEvent(shared.EventPlansChanged, "plans", "remote"))
	assert.Equal(t, 2, count)
}

func TestHandlerErrorDoesNotPropagate(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultConfig())
	defer bus.Close()

	bus.Subscribe(shared.EventStudentsChanged, func(e shared.Event) error {
		return errors.New("boom")
	})

	err := bus.Publish(shared.NewCollectionChangedEvent(shared.EventStudentsChanged, "students", "local"))
	assert.NoError(t, err)

	assert.Equal(t, int64(1), bus.Metrics().HandlerFailures)
}

func TestClosedBusRejectsOperations(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultConfig())
	assert.NoError(t, bus.Close())

	err := bus.Publish(shared.NewCollectionChangedEvent(shared.EventStudentsChanged, "students", "local"))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventStudentsChanged, func(e shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)

	// Closing twice is fine.
	assert.NoError(t, bus.Close())
}

func TestNilHandlerRejected(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultConfig())
	defer bus.Close()

	assert.ErrorIs(t, bus.Subscribe(shared.EventStudentsChanged, nil), ErrNilHandler)
	assert.ErrorIs(t, bus.SubscribeAll(nil), ErrNilHandler)
}
