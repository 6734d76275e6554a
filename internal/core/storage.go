// Package core defines the persistence collaborator shared by the task stores.
package core

import (
	"context"
	"errors"
)

// ErrSlotNotFound is returned by Storage.Load when nothing has been saved under a key.
var ErrSlotNotFound = errors.New("slot not found")

// Storage is a key/value blob store. Each task store owns one slot holding
// the JSON array of its records, rewritten in full after every mutation.
// Implementations can be file-based, cloud-storage based, SQL-backed, etc.
type Storage interface {
	// Load returns the bytes saved under key, or ErrSlotNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the bytes stored under key.
	Save(ctx context.Context, key string, data []byte) error

	// Keys lists the slots that currently hold data, sorted.
	Keys(ctx context.Context) ([]string, error)
}

// ErrInvalidKey is returned for slot keys that are empty or not path-safe.
var ErrInvalidKey = errors.New("invalid slot key")

// ValidateKey checks that key is usable as a file or object name on every backend.
func ValidateKey(key string) error {
	if key == "" || len(key) > 128 {
		return ErrInvalidKey
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return ErrInvalidKey
		}
	}
	return nil
}
