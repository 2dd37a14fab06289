// Package kvstore wraps a persistent key-value mechanism behind a small
// adapter interface. Every failure (unavailable backend, write error,
// corrupted payload) is caught, logged, and degraded to a miss or a false
// return value. Callers never see an error from this layer; higher layers
// decide what an absent value means.
package kvstore

import (
	"context"
	"encoding/json"

	"github.com/creatorspace/memberkit/internal/logging"
)

// probeKey is written and deleted once when a store is opened to verify the
// mechanism is usable at all.
const probeKey = "__memberkit_probe__"

// Store is the raw string contract. Values are opaque; use Get/Set for
// JSON-encoded records.
type Store interface {
	// GetRaw returns the stored value and true, or "" and false when the key
	// is absent or the backend failed.
	GetRaw(key string) (string, bool)

	// SetRaw stores value under key and reports whether the write succeeded.
	SetRaw(key, value string) bool

	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(key string)

	Close() error
}

// Get decodes the JSON value stored under key into v. A missing key, a
// backend fault, or a corrupted payload all yield false; corruption is
// logged so the silent reset is at least visible in the logs.
func Get(ctx context.Context, log logging.Logger, s Store, key string, v any) bool {
	raw, ok := s.GetRaw(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		log.Warn(ctx, "discarding corrupted record", "key", key, "error", err)
		return false
	}
	return true
}

// Set JSON-encodes v and stores it under key.
func Set(ctx context.Context, log logging.Logger, s Store, key string, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error(ctx, "cannot encode record", "key", key, "error", err)
		return false
	}
	return s.SetRaw(key, string(b))
}

// probe verifies the store accepts writes by round-tripping a sentinel key.
func probe(s Store) bool {
	if !s.SetRaw(probeKey, "1") {
		return false
	}
	_, ok := s.GetRaw(probeKey)
	s.Remove(probeKey)
	return ok
}
