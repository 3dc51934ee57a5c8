// Package repositories defines the repository interfaces for persisted
// client state. These abstract the storage details so the explorer only
// deals in keys and values.
package repositories

import "context"

// Well-known client state keys.
const (
	KeyTheme         = "theme"
	KeyLearningStats = "learningStats"
)

// ClientStateRepository stores small per-browser key/value entries, the
// server-side counterpart of browser local storage. A missing key is
// reported with found=false, not an error.
type ClientStateRepository interface {
	Get(ctx context.Context, clientID, key string) (value string, found bool, err error)
	Set(ctx context.Context, clientID, key, value string) error
	Delete(ctx context.Context, clientID, key string) error
	LoadAll(ctx context.Context, clientID string) (map[string]string, error)
}
