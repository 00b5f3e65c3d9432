package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveWithin(t *testing.T, ch <-chan []string, d time.Duration) []string {
	t.Helper()
	select {
	case got, ok := <-ch:
		require.True(t, ok, "channel closed before delivering a value")
		return got
	case <-time.After(d):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeReplaysLatest(t *testing.T) {
	f := New[[]string]()
	f.Publish([]string{"Soup"})
	f.Publish([]string{"Soup", "Pizza"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := f.Subscribe(ctx)
	got := receiveWithin(t, ch, time.Second)
	assert.Equal(t, []string{"Soup", "Pizza"}, got)
}

func TestSubscribeBeforeFirstPublish(t *testing.T) {
	f := New[[]string]()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := f.Subscribe(ctx)
	select {
	case <-ch:
		t.Fatal("expected no value before first publish")
	case <-time.After(50 * time.Millisecond):
	}

	f.Publish([]string{"Burger"})
	assert.Equal(t, []string{"Burger"}, receiveWithin(t, ch, time.Second))
}

func TestSlowSubscriberSeesNewestValue(t *testing.T) {
	f := New[[]string]()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := f.Subscribe(ctx)
	f.Publish([]string{"v1"})
	f.Publish([]string{"v2"})
	f.Publish([]string{"v3"})

	// The buffered slot holds only the most recent snapshot.
	assert.Equal(t, []string{"v3"}, receiveWithin(t, ch, time.Second))
}

func TestLatest(t *testing.T) {
	f := New[[]string]()

	_, ok := f.Latest()
	assert.False(t, ok)

	f.Publish([]string{"Soup"})
	got, ok := f.Latest()
	require.True(t, ok)
	assert.Equal(t, []string{"Soup"}, got)
}

func TestCancelUnsubscribes(t *testing.T) {
	f := New[[]string]()

	ctx, cancel := context.WithCancel(context.Background())
	ch := f.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond, "channel should close after cancel")

	// Publishing after unsubscribe must not panic.
	f.Publish([]string{"Soup"})
}

func TestCloseEndsSubscriptions(t *testing.T) {
	f := New[[]string]()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := f.Subscribe(ctx)
	f.Close()

	_, ok := <-ch
	assert.False(t, ok)

	// Publish and a late Subscribe are no-ops on a closed feed.
	f.Publish([]string{"Soup"})
	late := f.Subscribe(ctx)
	_, ok = <-late
	assert.False(t, ok)
}
