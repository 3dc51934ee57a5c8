package stores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
)

func newStore(max int) *SessionsStore {
	return NewSessionsStore(max, logging.NewDiscardLogger(), metrics.NewCollector("test"))
}

func TestSessionsStore_PutGetDelete(t *testing.T) {
	// Arrange
	store := newStore(0)
	s := session.NewSession("c1", session.ThemeDark, session.UsageStats{})

	// Act
	evicted := store.Put(s)

	// Assert
	assert.Empty(t, evicted)
	got, ok := store.Get("c1")
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, store.Count())

	assert.True(t, store.Delete("c1"))
	assert.False(t, store.Delete("c1"))
	_, ok = store.Get("c1")
	assert.False(t, ok)
}

func TestSessionsStore_CapEvictsIdlest(t *testing.T) {
	store := newStore(2)
	store.Put(session.NewSession("old", session.ThemeLight, session.UsageStats{}))
	time.Sleep(2 * time.Millisecond)
	store.Put(session.NewSession("mid", session.ThemeLight, session.UsageStats{}))
	time.Sleep(2 * time.Millisecond)

	evicted := store.Put(session.NewSession("new", session.ThemeLight, session.UsageStats{}))

	assert.Equal(t, []string{"old"}, evicted)
	assert.Equal(t, 2, store.Count())
	_, ok := store.Get("new")
	assert.True(t, ok)
}

func TestSessionsStore_EvictIdle(t *testing.T) {
	store := newStore(0)
	store.Put(session.NewSession("a", session.ThemeLight, session.UsageStats{}))
	store.Put(session.NewSession("b", session.ThemeLight, session.UsageStats{}))
	time.Sleep(5 * time.Millisecond)

	assert.Empty(t, store.EvictIdle(time.Hour))
	assert.Equal(t, []string{"a", "b"}, store.EvictIdle(time.Millisecond))
	assert.Equal(t, 0, store.Count())

	_, has := store.OldestActivity()
	assert.False(t, has)
}
