package contract

import "context"

// StateRepository stores persisted store envelopes by key.
type StateRepository interface {
	// Load returns nil data and no error when nothing is stored under key.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
