// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/study-scroller/internal/catalog"
	"github.com/pdiddy/study-scroller/internal/feed"
	"github.com/pdiddy/study-scroller/internal/sources"
	"github.com/pdiddy/study-scroller/pkg/types"
)

func failingServer(t *testing.T, status int, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, http.StatusText(status), status)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestAssemblerFallsBackToCatalogSamplesWhenBothSourcesFail(t *testing.T) {
	var alexHits, fdaHits atomic.Int32
	alex := failingServer(t, http.StatusInternalServerError, &alexHits)
	fda := failingServer(t, http.StatusNotFound, &fdaHits)
	sources.UseEndpoints(t, alex.URL, fda.URL)

	lg := log.New(io.Discard)
	cfg := types.FeedConfig{}
	cat := catalog.MustLoad()
	a := &feed.Assembler{
		Scholarly: sources.NewOpenAlex(alex.Client(), cfg, lg),
		Drug:      sources.NewOpenFDA(fda.Client(), cfg, lg),
		Fallback:  cat.SampleCardsCopy,
		Log:       lg,
	}

	res := a.Assemble(context.Background(), "Psychology")

	assert.Equal(t, int32(1), alexHits.Load())
	assert.Equal(t, int32(1), fdaHits.Load())
	assert.True(t, res.Fallback)
	require.Len(t, res.Cards, 3)
	assert.Equal(t, cat.SampleCardsCopy(), res.Cards)

	ids := make([]types.CardID, len(res.Cards))
	for i, c := range res.Cards {
		ids[i] = c.ID
	}
	assert.Equal(t, []types.CardID{"1", "2", "6"}, ids)
}
