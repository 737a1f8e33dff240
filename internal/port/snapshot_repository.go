package port

import "context"

type SnapshotRepository interface {
	// Load returns the snapshot stored under key, or nil if there is none
	Load(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the snapshot stored under key
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the snapshot stored under key
	Delete(ctx context.Context, key string) error
}
