package store

import "errors"

var (
	ErrNotFound = errors.New("not found")
)

// KV is the durable key-value capability the client runs on. Values are
// JSON-serializable documents; there is one learner per store, so
// implementations may assume a single writer per key.
type KV interface {
	// Get decodes the value stored under key into v.
	// Returns ErrNotFound when the key is absent.
	Get(key string, v any) error
	// Set stores v under key, replacing any previous value.
	Set(key string, v any) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
