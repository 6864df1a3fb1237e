package memory

import (
	"context"

	"bioez-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// StateRepository keeps persisted envelopes in process memory. Entries do not expire.
type StateRepository struct {
	cache *cache.Cache
}

var _ contract.StateRepository = &StateRepository{}

func NewStateRepository() *StateRepository {
	return &StateRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *StateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if x, found := r.cache.Get(key); found {
		data := x.([]byte)
		return append([]byte(nil), data...), nil
	}
	return nil, nil
}

func (r *StateRepository) Save(ctx context.Context, key string, data []byte) error {
	r.cache.Set(key, append([]byte(nil), data...), cache.NoExpiration)
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, key string) error {
	r.cache.Delete(key)
	return nil
}
