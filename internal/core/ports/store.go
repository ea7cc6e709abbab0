package ports

import "go.trai.ch/manifold/internal/core/domain"

// IntentStore defines the interface for persisting environment intent snapshots.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type IntentStore interface {
	// Get retrieves the snapshot persisted in the environment directory.
	// Returns nil, nil if not found.
	Get(envDir string) (*domain.IntentSnapshot, error)

	// Put stores the snapshot in the environment directory.
	Put(envDir string, snapshot *domain.IntentSnapshot) error

	// Fingerprint returns a stable digest of the snapshot content, ignoring its Fingerprint field.
	Fingerprint(snapshot *domain.IntentSnapshot) (string, error)
}
