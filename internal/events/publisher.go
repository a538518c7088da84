package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	statusKeyPrefix    = "sim:status:" // latest status per run: sim:status:{id}
	eventChannelPrefix = "sim:events:" // Pub/Sub channel per run: sim:events:{id}
	statusTTL          = 7 * 24 * time.Hour
)

// Event describes a simulation lifecycle transition.
type Event struct {
	SimulationID string    `json:"simulation_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher pushes lifecycle events to Redis Pub/Sub and caches the latest
// status per simulation. A nil Publisher is a no-op, so the lifecycle
// service works unchanged when Redis is not configured.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish is fire-and-forget: a Redis failure is logged but never
// surfaces to the lifecycle path.
func (p *Publisher) Publish(ctx context.Context, evt Event) {
	if p == nil || p.client == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[error] operation=events.publish sim=%s error=%v", evt.SimulationID, err)
		return
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, statusKey(evt.SimulationID), evt.Status, statusTTL)
	pipe.Publish(ctx, eventChannel(evt.SimulationID), data)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[error] operation=events.publish sim=%s error=%v", evt.SimulationID, err)
	}
}

// LatestStatus reads the cached status for a simulation; empty when the
// cache has no entry.
func (p *Publisher) LatestStatus(ctx context.Context, id string) (string, error) {
	if p == nil || p.client == nil {
		return "", nil
	}
	status, err := p.client.Get(ctx, statusKey(id)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest status: %w", err)
	}
	return status, nil
}

func statusKey(id string) string {
	return statusKeyPrefix + id
}

func eventChannel(id string) string {
	return eventChannelPrefix + id
}
