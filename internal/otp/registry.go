// Package otp keeps the short-lived registration codes sent to unregistered phones.
package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/example/bozor/internal/utils"
)

const (
	codeMin int64 = 100000
	codeMax int64 = 999999
)

// Key returns the cache key holding the registration code for phone.
func Key(phone string) string {
	return "register:" + phone
}

// Registry issues and checks registration codes.
type Registry struct {
	store    Store
	ttl      time.Duration
	generate func() (string, error)
}

// NewRegistry constructs a Registry whose codes live for ttl.
func NewRegistry(store Store, ttl time.Duration) *Registry {
	return &Registry{
		store: store,
		ttl:   ttl,
		generate: func() (string, error) {
			return utils.RandomCode(codeMin, codeMax)
		},
	}
}

// Issue returns the live code for phone, storing a new one only when none is live.
// An existing code keeps its value and its remaining TTL. created reports whether
// this call stored the code.
func (r *Registry) Issue(ctx context.Context, phone string) (code string, created bool, err error) {
	candidate, err := r.generate()
	if err != nil {
		return "", false, fmt.Errorf("generate code: %w", err)
	}

	key := Key(phone)
	created, err = r.store.SetNX(ctx, key, candidate, r.ttl)
	if err != nil {
		return "", false, fmt.Errorf("store code: %w", err)
	}
	if created {
		return candidate, true, nil
	}

	live, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read code: %w", err)
	}
	if !ok {
		// Expired between the two calls; the next attempt will win.
		return r.Issue(ctx, phone)
	}
	return live, false, nil
}

// Matches reports whether code equals the live code for phone.
// A missing or expired entry never matches.
func (r *Registry) Matches(ctx context.Context, phone, code string) (bool, error) {
	live, ok, err := r.store.Get(ctx, Key(phone))
	if err != nil {
		return false, fmt.Errorf("read code: %w", err)
	}
	return ok && live == code, nil
}
