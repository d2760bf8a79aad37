package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/mapbuddy/internal/store"
)

// Source tells where a credential came from.
type Source string

const (
	SourceNone   Source = ""
	SourceEnv    Source = "env"
	SourceStored Source = "stored"
)

// Credentials resolves the reasoning credential. A value from the
// environment always wins over the persisted slot.
type Credentials struct {
	env   string
	slots store.Slots
}

func NewCredentials(env string, slots store.Slots) *Credentials {
	return &Credentials{env: strings.TrimSpace(env), slots: slots}
}

// Resolve returns the credential in effect and its source. No
// credential at all is an *Error of kind ErrMissingCredential.
func (c *Credentials) Resolve(ctx context.Context) (string, Source, error) {
	if c.env != "" {
		return c.env, SourceEnv, nil
	}
	if c.slots == nil {
		return "", SourceNone, newError(ErrMissingCredential, 0, "", nil)
	}

	v, ok, err := c.slots.Get(ctx, store.SlotCredential)
	if err != nil {
		return "", SourceNone, fmt.Errorf("failed to read stored credential: %w", err)
	}
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", SourceNone, newError(ErrMissingCredential, 0, "", nil)
	}
	return v, SourceStored, nil
}

// Available reports whether Resolve would succeed.
func (c *Credentials) Available(ctx context.Context) bool {
	_, _, err := c.Resolve(ctx)
	return err == nil
}

// Store persists key as the fallback credential.
func (c *Credentials) Store(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return newError(ErrMissingCredential, 0, "empty credential", nil)
	}
	if c.slots == nil {
		return fmt.Errorf("no credential store configured")
	}
	return c.slots.Set(ctx, store.SlotCredential, key)
}

// Forget removes the persisted credential. An environment credential
// stays in effect.
func (c *Credentials) Forget(ctx context.Context) error {
	if c.slots == nil {
		return nil
	}
	return c.slots.Delete(ctx, store.SlotCredential)
}
