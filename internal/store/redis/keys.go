package redis

import (
	"fmt"

	"github.com/MrSnakeDoc/mapbuddy/internal/store"
)

// KeyPrefixSlot is the prefix for persisted slot keys
const KeyPrefixSlot = "mapbuddy:slot:"

// SlotKey returns the Redis key for a slot
func SlotKey(slot store.Slot) string {
	return KeyPrefixSlot + string(slot)
}

// ExtractSlot extracts the slot name from a Redis key
func ExtractSlot(key string) (store.Slot, error) {
	if len(key) <= len(KeyPrefixSlot) || key[:len(KeyPrefixSlot)] != KeyPrefixSlot {
		return "", fmt.Errorf("invalid slot key: %s", key)
	}
	return store.Slot(key[len(KeyPrefixSlot):]), nil
}
