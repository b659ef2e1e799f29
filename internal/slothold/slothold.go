// Package slothold keeps a short-lived Redis reservation on a
// (provider, date, time) slot while a booking is being committed.
package slothold

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const DefaultTTL = 10 * time.Second

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Hold struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Hold {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Hold{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("slothold: parse url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("slothold: ping: %w", err)
	}
	return client, nil
}

func Key(profileID uint, date, clock string) string {
	return fmt.Sprintf("slothold:%d:%s:%s", profileID, date, clock)
}

// Acquire tries to reserve the slot. ok is false when another request holds
// it. The returned release func is safe to call when ok is false.
func (h *Hold) Acquire(
	ctx context.Context,
	profileID uint,
	date string,
	clock string,
) (ok bool, release func(), err error) {

	key := Key(profileID, date, clock)
	token := uuid.NewString()

	ok, err = h.client.SetNX(ctx, key, token, h.ttl).Result()
	if err != nil {
		return false, func() {}, fmt.Errorf("slothold: setnx: %w", err)
	}
	if !ok {
		return false, func() {}, nil
	}

	release = func() {
		// The request context may already be done; use a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		releaseScript.Run(rctx, h.client, []string{key}, token)
	}
	return true, release, nil
}
