package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Static{Name: "usfr"})
	reg.Register(&Static{Name: "cpdb"})

	f, err := reg.Get("usfr")
	require.NoError(t, err)
	assert.Equal(t, "usfr", f.Source())

	_, err = reg.Get("unknown")
	assert.Error(t, err)

	assert.Equal(t, []string{"cpdb", "usfr"}, reg.Sources())
}

func TestStaticFetcher(t *testing.T) {
	f := &Static{Name: "test_source", Items: []RawItem{{SourceItemID: "a"}}}
	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)

	boom := &Static{Name: "down", Err: errors.New("source unavailable")}
	_, err = boom.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFeedFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"source_item_id":"cpdb-1","title_raw":"Carbon levy update","summary_raw":"s","text_raw":"t","effective_date_raw":"2026-01-01"}]`))
	}))
	defer srv.Close()

	f := NewFeedFetcher("cpdb", srv.URL, zap.NewNop())
	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "cpdb-1", items[0].SourceItemID)
	assert.Equal(t, "2026-01-01", items[0].EffectiveDateRaw)
}

func TestFeedFetcherBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFeedFetcher("cpdb", srv.URL, zap.NewNop())
	_, err := f.Fetch(context.Background())
	assert.Error(t, err)
}

func TestThrottleEnforcesSpacing(t *testing.T) {
	inner := &Static{Name: "cpdb", Items: []RawItem{{SourceItemID: "a"}}}
	throttled := Throttle(inner, 50*time.Millisecond)

	start := time.Now()
	_, err := throttled.Fetch(context.Background())
	require.NoError(t, err)
	_, err = throttled.Fetch(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond,
		"second call must wait out the minimum spacing")
}

func TestThrottleCancelable(t *testing.T) {
	inner := &Static{Name: "cpdb"}
	throttled := Throttle(inner, time.Hour)

	_, err := throttled.Fetch(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = throttled.Fetch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
