package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

// Redis stores credential slots in Redis under one key per slot, namespaced
// by terminal ID so lanes sharing a till server stay isolated.
// Key format: creds:<terminal_id>:<slot>
type Redis struct {
	client     *redis.Client
	terminalID string
}

var _ ports.CredentialStore = (*Redis)(nil)

func NewRedis(client *redis.Client, terminalID string) *Redis {
	return &Redis{client: client, terminalID: terminalID}
}

func (r *Redis) Get(ctx context.Context, slot ports.Slot) (string, error) {
	val, err := r.client.Get(ctx, r.key(slot)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credstore get %s: %w", slot, err)
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, slot ports.Slot, value string) error {
	if err := r.client.Set(ctx, r.key(slot), value, 0).Err(); err != nil {
		return fmt.Errorf("credstore set %s: %w", slot, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	keys := make([]string, 0, len(ports.Slots))
	for _, slot := range ports.Slots {
		keys = append(keys, r.key(slot))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("credstore clear: %w", err)
	}
	return nil
}

func (r *Redis) key(slot ports.Slot) string {
	return fmt.Sprintf("creds:%s:%s", r.terminalID, slot)
}
