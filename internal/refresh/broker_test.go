package refresh_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douglasrujana/react-form-restaurant/internal/refresh"
)

func TestBroker_StartsAtZero(t *testing.T) {
	b := refresh.NewBroker()

	assert.Zero(t, b.Version())
}

func TestBroker_PublishDeliversToEverySubscriber(t *testing.T) {
	b := refresh.NewBroker()
	s1 := b.Subscribe()
	defer s1.Close()
	s2 := b.Subscribe()
	defer s2.Close()

	v := b.Publish()

	assert.EqualValues(t, 1, v)
	assert.EqualValues(t, 1, <-s1.C())
	assert.EqualValues(t, 1, <-s2.C())
}

// A burst of publishes collapses into the latest version for a reader that
// was not draining; only the fact that something changed matters.
func TestBroker_CoalescesUndrainedVersions(t *testing.T) {
	b := refresh.NewBroker()
	s := b.Subscribe()
	defer s.Close()

	b.Publish()
	b.Publish()
	b.Notify(context.Background())

	assert.EqualValues(t, 3, <-s.C())
	select {
	case v := <-s.C():
		t.Fatalf("expected no further value, got %d", v)
	default:
	}
}

func TestBroker_CloseStopsDelivery(t *testing.T) {
	b := refresh.NewBroker()
	s := b.Subscribe()

	s.Close()
	s.Close() // second close is a no-op
	b.Publish()

	_, ok := <-s.C()
	require.False(t, ok, "channel should be closed")
	assert.EqualValues(t, 1, b.Version())
}
