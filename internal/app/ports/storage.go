package ports

import "context"

// KeyValueStore is the flat settings store shared with the page-side selection UI.
// Get omits keys that are not stored.
type KeyValueStore interface {
	Get(ctx context.Context, keys []string) (map[string]string, error)
	Set(ctx context.Context, values map[string]string) error
}
