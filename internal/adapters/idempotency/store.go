// Package idempotency stores client idempotency keys and the responses they
// produced so a retried request replays the first response instead of
// re-running the operation.
package idempotency

import (
	"context"
	"errors"
	"time"
)

// State is the progress of the request that reserved a key.
type State string

const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// ErrStoreUnavailable is returned when the backing store cannot be reached.
var ErrStoreUnavailable = errors.New("idempotency store unavailable")

// Record is what is kept per key.
type Record struct {
	State       State     `json:"state"`
	Fingerprint string    `json:"fingerprint"`
	StatusCode  int       `json:"statusCode,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Store reserves and completes idempotency keys.
type Store interface {
	// Reserve claims key for a new request. When the key is already held the
	// existing record is returned with reserved=false.
	Reserve(ctx context.Context, key string, fingerprint string, ttl time.Duration) (existing *Record, reserved bool, err error)

	// Complete stores the final response for a reserved key.
	Complete(ctx context.Context, key string, rec Record, ttl time.Duration) error

	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error
}
