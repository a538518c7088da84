package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPublisher(t *testing.T) (*Publisher, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPublisher(client), mr, client
}

func TestPublish_CachesLatestStatus(t *testing.T) {
	pub, mr, _ := newTestPublisher(t)
	ctx := context.Background()

	pub.Publish(ctx, Event{SimulationID: "sim-1", Name: "Flood", Type: "DDoS", Status: "running"})

	got, err := mr.Get("sim:status:sim-1")
	require.NoError(t, err)
	assert.Equal(t, "running", got)
	assert.Positive(t, mr.TTL("sim:status:sim-1"))

	pub.Publish(ctx, Event{SimulationID: "sim-1", Type: "DDoS", Status: "completed"})
	got, err = mr.Get("sim:status:sim-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", got)
}

func TestPublish_DeliversToSubscribers(t *testing.T) {
	pub, _, client := newTestPublisher(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "sim:events:sim-2")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub.Publish(ctx, Event{SimulationID: "sim-2", Name: "Campaign", Type: "Phishing", Status: "running"})

	select {
	case msg := <-sub.Channel():
		var evt Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &evt))
		assert.Equal(t, "sim-2", evt.SimulationID)
		assert.Equal(t, "running", evt.Status)
		assert.False(t, evt.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestLatestStatus(t *testing.T) {
	pub, _, _ := newTestPublisher(t)
	ctx := context.Background()

	t.Run("unknown simulation yields empty status", func(t *testing.T) {
		status, err := pub.LatestStatus(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, status)
	})

	t.Run("published status is readable back", func(t *testing.T) {
		pub.Publish(ctx, Event{SimulationID: "sim-3", Type: "Malware", Status: "failed"})
		status, err := pub.LatestStatus(ctx, "sim-3")
		require.NoError(t, err)
		assert.Equal(t, "failed", status)
	})
}

func TestNilPublisherIsNoOp(t *testing.T) {
	var pub *Publisher
	ctx := context.Background()

	assert.NotPanics(t, func() {
		pub.Publish(ctx, Event{SimulationID: "sim-4", Status: "running"})
	})

	status, err := pub.LatestStatus(ctx, "sim-4")
	require.NoError(t, err)
	assert.Empty(t, status)

	assert.NotPanics(t, func() {
		NewPublisher(nil).Publish(ctx, Event{SimulationID: "sim-5", Status: "running"})
	})
}
