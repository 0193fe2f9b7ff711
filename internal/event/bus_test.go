package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBus_FanOut(t *testing.T) {
	bus := NewBus()
	first, unsubFirst := bus.Subscribe()
	second, unsubSecond := bus.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	e := New(TypeNoteCreated, "user-1", "note-1")
	bus.Publish(e)

	assert.Equal(t, e, <-first)
	assert.Equal(t, e, <-second)
}

func TestInMemoryBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()

	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	// Publishing with no subscribers is a no-op.
	bus.Publish(New(TypeLoginFailed, "", "alice"))
	assert.Zero(t, bus.Dropped())
}

func TestInMemoryBus_DropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+3; i++ {
		bus.Publish(New(TypeLoginSucceeded, "user-1", ""))
	}

	assert.Equal(t, uint64(3), bus.Dropped())
	require.Len(t, ch, subscriberBuffer)
}

func TestNew(t *testing.T) {
	e := New(TypeWalletLinked, "user-1", "primary")
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, TypeWalletLinked, e.Type)
	assert.False(t, e.OccurredAt.IsZero())
}
