// Package realtime carries row-change events over Redis pub/sub. Clients are
// expected to subscribe directly using the credentials handed out by the
// broker endpoint; the server-side Manager exists for the demonstration
// subscription endpoint and for publishing.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ChatChannel names the feed carrying new messages of one chat.
func ChatChannel(chatID string) string { return "chat:" + chatID }

// MatchChannel names the feed carrying like/match events aimed at one user.
func MatchChannel(userID string) string { return "matches:" + userID }

type subscription struct {
	pubsub *redis.PubSub
	cancel context.CancelFunc
}

// Manager owns the process's active pub/sub subscriptions. It is created in
// main and injected where needed; its lifecycle is tied to the process, not
// hidden behind a package-level singleton.
type Manager struct {
	client *redis.Client
	log    *slog.Logger

	mu   sync.Mutex
	subs map[string]*subscription
}

// NewManager creates a Manager on top of an existing Redis client.
func NewManager(client *redis.Client, log *slog.Logger) *Manager {
	return &Manager{
		client: client,
		log:    log,
		subs:   make(map[string]*subscription),
	}
}

// Publish marshals payload to JSON and publishes it on channel. Delivery is
// best-effort fan-out; there are no offline subscribers to catch up.
func (m *Manager) Publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return m.client.Publish(ctx, channel, data).Err()
}

// Subscribe attaches a reader to channel. Subscribing twice to the same
// channel is a no-op. Received payloads are only logged; real clients
// subscribe directly with their own credentials.
func (m *Manager) Subscribe(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subs[channel]; ok {
		m.log.Debug("subscription already active", "channel", channel)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	pubsub := m.client.Subscribe(ctx, channel)
	m.subs[channel] = &subscription{pubsub: pubsub, cancel: cancel}

	go func() {
		for msg := range pubsub.Channel() {
			m.log.Info("realtime event", "channel", msg.Channel, "payload", msg.Payload)
		}
	}()

	m.log.Info("subscribed", "channel", channel)
}

// Unsubscribe detaches the reader for channel if one is active.
func (m *Manager) Unsubscribe(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(channel)
}

// Active returns the names of all live subscriptions.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	channels := make([]string, 0, len(m.subs))
	for name := range m.subs {
		channels = append(channels, name)
	}
	return channels
}

// Close tears down every active subscription.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name := range m.subs {
		m.remove(name)
	}
}

// remove expects m.mu to be held.
func (m *Manager) remove(channel string) {
	sub, ok := m.subs[channel]
	if !ok {
		return
	}
	_ = sub.pubsub.Close()
	sub.cancel()
	delete(m.subs, channel)
	m.log.Info("unsubscribed", "channel", channel)
}
