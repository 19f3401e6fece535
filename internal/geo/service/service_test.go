package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esteham/eland-portal/internal/geo/models"
)

// countingLookup counts fetches and can block them behind a gate so the
// singleflight collapse is observable.
type countingLookup struct {
	calls atomic.Int64
	gate  chan struct{}
	nodes []models.GeoNode
	err   error
}

func (c *countingLookup) Children(context.Context, models.Level, string) ([]models.GeoNode, error) {
	c.calls.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	return c.nodes, c.err
}

func (c *countingLookup) SurveyTypes(context.Context, string) ([]models.SurveyTypeOption, error) {
	c.calls.Add(1)
	return []models.SurveyTypeOption{{ID: "sheet-1-CS", Code: "CS", SheetID: "sheet-1"}}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNilCachePassesThrough(t *testing.T) {
	next := &countingLookup{nodes: []models.GeoNode{
		{ID: "div-dhaka", DisplayName: "Dhaka"},
	}}
	cached := NewCached(next, nil, time.Minute, discardLogger())

	nodes, err := cached.Children(context.Background(), models.LevelDivision, "")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "div-dhaka", nodes[0].ID)

	_, err = cached.Children(context.Background(), models.LevelDivision, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.calls.Load(), "without a cache every call reaches the registry")
}

func TestLevelRestoredAfterRoundTrip(t *testing.T) {
	next := &countingLookup{nodes: []models.GeoNode{
		{ID: "dist-dhaka", Level: models.LevelDistrict, DisplayName: "Dhaka", ParentID: "div-dhaka"},
	}}
	cached := NewCached(next, nil, time.Minute, discardLogger())

	nodes, err := cached.Children(context.Background(), models.LevelDistrict, "div-dhaka")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, models.LevelDistrict, nodes[0].Level)
	assert.Equal(t, "district", nodes[0].LevelName)
}

func TestErrorsPropagate(t *testing.T) {
	next := &countingLookup{err: fmt.Errorf("registry down")}
	cached := NewCached(next, nil, time.Minute, discardLogger())

	_, err := cached.Children(context.Background(), models.LevelDivision, "")
	require.Error(t, err)
}

func TestConcurrentMissesCollapse(t *testing.T) {
	next := &countingLookup{
		gate:  make(chan struct{}),
		nodes: []models.GeoNode{{ID: "div-dhaka", DisplayName: "Dhaka"}},
	}
	cached := NewCached(next, nil, time.Minute, discardLogger())

	const concurrency = 8
	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			nodes, err := cached.Children(context.Background(), models.LevelDivision, "")
			assert.NoError(t, err)
			assert.Len(t, nodes, 1)
		}()
	}

	// let every goroutine pile onto the in-flight fetch before releasing it
	require.Eventually(t, func() bool {
		return next.calls.Load() >= 1
	}, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(next.gate)
	wg.Wait()

	assert.Less(t, next.calls.Load(), int64(concurrency),
		"concurrent identical lookups share one registry fetch")
}
