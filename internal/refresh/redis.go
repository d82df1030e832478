package refresh

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

// DefaultChannel is the Redis pub/sub channel refresh signals travel on.
const DefaultChannel = "reservations:refresh"

// RedisRelay shares refresh signals between replicas of the service.
// Notify publishes to the local Broker first and then to Redis, tagged with
// the relay's id; Run forwards every message from other replicas into the
// local Broker and drops this replica's own echoes.
type RedisRelay struct {
	client  *redis.Client
	channel string
	broker  *Broker
	log     *slog.Logger
	id      string
}

// NewRedisRelay builds a relay on channel (DefaultChannel when empty).
func NewRedisRelay(client *redis.Client, channel string, broker *Broker, log *slog.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{
		client:  client,
		channel: channel,
		broker:  broker,
		log:     log,
		id:      uuid.NewString(),
	}
}

// Notify implements Notifier. The local Broker is always published to, so
// this replica's listing refreshes whether or not Redis is reachable.
func (r *RedisRelay) Notify(ctx context.Context) uint64 {
	v := r.broker.Publish()
	if err := r.client.Publish(ctx, r.channel, r.id).Err(); err != nil {
		r.log.WarnContext(ctx, "refresh relay publish failed, other replicas not notified", "error", err)
	}
	return v
}

// Run subscribes to the channel and republishes other replicas' signals into
// the broker until ctx is cancelled. Subscribing is retried with capped
// exponential backoff while Redis is unreachable; once subscribed, the
// client reconnects on its own. ready, if non-nil, is closed once the
// subscription is live.
func (r *RedisRelay) Run(ctx context.Context, ready chan<- struct{}) error {
	backoff := retry.WithCappedDuration(5*time.Second, retry.NewExponential(100*time.Millisecond))

	var sub *redis.PubSub
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		s := r.client.Subscribe(ctx, r.channel)
		// Receive blocks until Redis confirms the subscription.
		if _, err := s.Receive(ctx); err != nil {
			_ = s.Close()
			r.log.WarnContext(ctx, "refresh relay subscribe failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		sub = s
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer sub.Close()

	if ready != nil {
		close(ready)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if msg.Payload == r.id {
				continue
			}
			v := r.broker.Publish()
			r.log.DebugContext(ctx, "refresh relayed", "version", v)
		}
	}
}
