// Package identity holds the current user's identity and persists it through
// an injected key-value store.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	userKey      = "superset_user"
	onboardedKey = "superset_onboarded"
	guestPrefix  = "guest_"
)

// ErrEmpty is returned when an identity would be empty.
var ErrEmpty = errors.New("identity must not be empty")

// Identity is an opaque, non-empty user identifier. The zero value means
// "nobody" and is never produced by New.
type Identity struct {
	id string
}

// New validates and wraps a user identifier.
func New(id string) (Identity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Identity{}, ErrEmpty
	}
	return Identity{id: id}, nil
}

// Guest creates a fresh random identity.
func Guest() Identity {
	return Identity{id: guestPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

// String returns the raw identifier.
func (i Identity) String() string { return i.id }

// IsZero reports whether i is the zero Identity.
func (i Identity) IsZero() bool { return i.id == "" }

// KV is the persistence collaborator used by Keeper.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Keeper persists the signed-in identity and onboarding flag.
type Keeper struct {
	kv KV
}

// NewKeeper creates a Keeper backed by kv.
func NewKeeper(kv KV) *Keeper {
	return &Keeper{kv: kv}
}

// Current returns the signed-in identity, if any.
func (k *Keeper) Current(ctx context.Context) (Identity, bool, error) {
	v, ok, err := k.kv.Get(ctx, userKey)
	if err != nil {
		return Identity{}, false, fmt.Errorf("read identity: %w", err)
	}
	if !ok {
		return Identity{}, false, nil
	}
	id, err := New(v)
	if err != nil {
		return Identity{}, false, nil
	}
	return id, true, nil
}

// Login stores id as the signed-in identity.
func (k *Keeper) Login(ctx context.Context, id Identity) error {
	if id.IsZero() {
		return ErrEmpty
	}
	if err := k.kv.Set(ctx, userKey, id.String()); err != nil {
		return fmt.Errorf("store identity: %w", err)
	}
	return nil
}

// Logout clears the identity and the onboarding flag.
func (k *Keeper) Logout(ctx context.Context) error {
	if err := k.kv.Delete(ctx, userKey); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	if err := k.kv.Delete(ctx, onboardedKey); err != nil {
		return fmt.Errorf("clear onboarded flag: %w", err)
	}
	return nil
}

// Onboarded reports whether the intake questionnaire was completed.
func (k *Keeper) Onboarded(ctx context.Context) (bool, error) {
	v, ok, err := k.kv.Get(ctx, onboardedKey)
	if err != nil {
		return false, fmt.Errorf("read onboarded flag: %w", err)
	}
	return ok && v == "true", nil
}

// SetOnboarded stores the onboarding flag.
func (k *Keeper) SetOnboarded(ctx context.Context, v bool) error {
	value := "false"
	if v {
		value = "true"
	}
	if err := k.kv.Set(ctx, onboardedKey, value); err != nil {
		return fmt.Errorf("store onboarded flag: %w", err)
	}
	return nil
}
