package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// AdminChannel is the Redis pub/sub channel feeding the admin event stream.
const AdminChannel = "notifications:admins"

// Broadcaster fans admin messages out to every connected stream through
// Redis, so all API replicas see them.
type Broadcaster struct {
	client    redis.UniversalClient
	done      chan struct{}
	closeOnce sync.Once
}

// NewBroadcaster returns a disabled Broadcaster when client is nil.
func NewBroadcaster(client *redis.Client) *Broadcaster {
	b := &Broadcaster{done: make(chan struct{})}
	if client != nil {
		b.client = client
	}
	return b
}

// Close ends every open stream. Publishing still works afterwards.
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// Done is closed once Close has been called.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

func (b *Broadcaster) Enabled() bool {
	return b != nil && b.client != nil
}

func (b *Broadcaster) Publish(ctx context.Context, msg AdminMessage) error {
	if !b.Enabled() {
		return ErrNotConfigured
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal admin message: %w", err)
	}
	return b.client.Publish(ctx, AdminChannel, payload).Err()
}

// Subscribe returns a subscription the caller must close.
func (b *Broadcaster) Subscribe(ctx context.Context) *redis.PubSub {
	return b.client.Subscribe(ctx, AdminChannel)
}
