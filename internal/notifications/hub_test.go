package notifications

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk-backend/internal/store"
)

func TestHubPublishSubscribe(t *testing.T) {
	h := NewHub()

	ch, unsub := h.Subscribe("user-1")
	defer unsub()

	assert.True(t, h.HasSubscribers("user-1"))
	assert.False(t, h.HasSubscribers("user-2"))

	h.Publish(store.Notification{ID: "n-1", UserID: "user-1", Title: "New Task Assigned!"})

	select {
	case n := <-ch:
		assert.Equal(t, "n-1", n.ID)
	default:
		t.Fatal("expected a buffered notification")
	}
}

func TestHubRoutesByRecipient(t *testing.T) {
	h := NewHub()

	ch1, unsub1 := h.Subscribe("user-1")
	defer unsub1()
	ch2, unsub2 := h.Subscribe("user-2")
	defer unsub2()

	h.Publish(store.Notification{ID: "n-1", UserID: "user-2"})

	assert.Len(t, ch1, 0)
	require.Len(t, ch2, 1)
	assert.Equal(t, "n-1", (<-ch2).ID)
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub()

	_, unsub := h.Subscribe("user-1")
	unsub()

	assert.False(t, h.HasSubscribers("user-1"))

	// Publishing into the void is a no-op.
	h.Publish(store.Notification{ID: "n-1", UserID: "user-1"})
}

func TestHubMultipleSubscribersSameUser(t *testing.T) {
	h := NewHub()

	ch1, unsub1 := h.Subscribe("user-1")
	defer unsub1()
	ch2, unsub2 := h.Subscribe("user-1")

	h.Publish(store.Notification{ID: "n-1", UserID: "user-1"})
	assert.Len(t, ch1, 1)
	assert.Len(t, ch2, 1)

	// Dropping one subscriber leaves the other attached.
	unsub2()
	assert.True(t, h.HasSubscribers("user-1"))

	h.Publish(store.Notification{ID: "n-2", UserID: "user-1"})
	assert.Len(t, ch1, 2)
}

func TestHubFullBufferDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()

	ch, unsub := h.Subscribe("user-1")
	defer unsub()

	// One more than the buffer holds; the publisher must not block.
	for i := 0; i < cap(ch)+1; i++ {
		h.Publish(store.Notification{ID: fmt.Sprintf("n-%d", i), UserID: "user-1"})
	}

	assert.Len(t, ch, cap(ch))
}
