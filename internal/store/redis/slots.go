package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/mapbuddy/internal/store"
)

// Store keeps persisted slots in Redis. Slots never expire.
type Store struct {
	client *redis.Client
}

var _ store.Slots = (*Store)(nil)

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Get reads a slot. A missing key is not an error.
func (s *Store) Get(ctx context.Context, slot store.Slot) (string, bool, error) {
	val, err := s.client.Get(ctx, SlotKey(slot)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get slot %s: %w", slot, err)
	}
	return val, true, nil
}

// Set writes a slot, replacing any previous value.
func (s *Store) Set(ctx context.Context, slot store.Slot, value string) error {
	if err := s.client.Set(ctx, SlotKey(slot), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

// Delete removes a slot. Deleting a missing slot is a no-op.
func (s *Store) Delete(ctx context.Context, slot store.Slot) error {
	if err := s.client.Del(ctx, SlotKey(slot)).Err(); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", slot, err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Slots lists the slots currently persisted.
func (s *Store) Slots(ctx context.Context) ([]store.Slot, error) {
	var out []store.Slot
	iter := s.client.Scan(ctx, 0, KeyPrefixSlot+"*", 0).Iterator()
	for iter.Next(ctx) {
		slot, err := ExtractSlot(iter.Val())
		if err != nil {
			continue
		}
		out = append(out, slot)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan slots: %w", err)
	}
	return out, nil
}
