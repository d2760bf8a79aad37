package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
	"github.com/MrSnakeDoc/mapbuddy/internal/store"
)

var Validate = validator.New()

// ErrMalformed is returned when the preferences slot holds something
// that is not a preferences record.
var ErrMalformed = errors.New("stored preferences are malformed")

// Repository reads and writes the preferences slot.
type Repository struct {
	slots store.Slots
}

func NewRepository(slots store.Slots) *Repository {
	return &Repository{slots: slots}
}

// Load returns the stored preferences, or nil when none were saved.
func (r *Repository) Load(ctx context.Context) (*domain.UserPreferences, error) {
	raw, ok, err := r.slots.Get(ctx, store.SlotPreferences)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var p domain.UserPreferences
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return p.Normalize(), nil
}

// Save validates p and overwrites the slot.
func (r *Repository) Save(ctx context.Context, p *domain.UserPreferences) error {
	if p == nil {
		return fmt.Errorf("preferences are required")
	}
	if err := Validate.Struct(p); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	data, err := json.Marshal(p.Normalize())
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := r.slots.Set(ctx, store.SlotPreferences, string(data)); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// Clear removes the stored preferences.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.slots.Delete(ctx, store.SlotPreferences); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}
