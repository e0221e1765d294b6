// Package device resolves the stable anonymous device identifier used as
// the profile key before (or without) a linked account.
package device

import (
	"fmt"

	"github.com/google/uuid"
)

// Store is the minimal persistence surface the resolver needs.
type Store interface {
	DeviceID() (string, error)
	SetDeviceID(id string) error
}

// GetOrCreate returns the persisted device id, generating and persisting
// a new one on first use. The id is stable across sessions and never
// regenerated while the store is intact.
func GetOrCreate(store Store) (string, error) {
	id, err := store.DeviceID()
	if err != nil {
		return "", fmt.Errorf("read device id: %w", err)
	}
	if id != "" {
		return id, nil
	}

	id = uuid.NewString()
	if err := store.SetDeviceID(id); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}
	return id, nil
}
