package explorer

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	geostore "github.com/esteham/eland-portal/internal/geo/store"
	recstore "github.com/esteham/eland-portal/internal/records/store"
	"github.com/esteham/eland-portal/internal/submission"
	substore "github.com/esteham/eland-portal/internal/submission/store"
	domainerrors "github.com/esteham/eland-portal/pkg/domain-errors"
)

func newTestRegistry(t *testing.T, ttl time.Duration) *Registry {
	t.Helper()
	return NewRegistry(RegistryConfig{
		Geo:       geostore.NewInMemory(),
		Records:   recstore.NewInMemory(),
		Gateway:   submission.NewMockGateway(),
		Submitter: substore.NewInMemory(),
		Logger:    slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		FeeAmount: 100,
		IdleTTL:   ttl,
	})
}

func TestCreateAndGet(t *testing.T) {
	registry := newTestRegistry(t, time.Minute)

	session := registry.Create()
	require.NotEmpty(t, session.ID)
	require.NotNil(t, session.Resolver)
	require.NotNil(t, session.Workflow)

	got, err := registry.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestGetUnknownSession(t *testing.T) {
	registry := newTestRegistry(t, time.Minute)

	_, err := registry.Get("nope")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	registry := newTestRegistry(t, time.Minute)

	clock := time.Now()
	registry.now = func() time.Time { return clock }

	idle := registry.Create()
	clock = clock.Add(45 * time.Second)
	active := registry.Create()

	// the idle session is 75s stale at sweep time, the active one 30s
	clock = clock.Add(30 * time.Second)
	evicted := registry.Sweep()
	assert.Equal(t, 1, evicted)

	_, err := registry.Get(idle.ID)
	assert.Error(t, err)
	_, err = registry.Get(active.ID)
	assert.NoError(t, err)
}

func TestGetRefreshesIdleClock(t *testing.T) {
	registry := newTestRegistry(t, time.Minute)

	clock := time.Now()
	registry.now = func() time.Time { return clock }

	session := registry.Create()

	clock = clock.Add(50 * time.Second)
	_, err := registry.Get(session.ID)
	require.NoError(t, err)

	// 50s after the refresh the session is still inside the TTL
	clock = clock.Add(50 * time.Second)
	assert.Equal(t, 0, registry.Sweep())

	clock = clock.Add(30 * time.Second)
	assert.Equal(t, 1, registry.Sweep())
}
