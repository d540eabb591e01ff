package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartBody(timestamps []int64, closes []interface{}, adjcloses []interface{}) string {
	body := map[string]interface{}{
		"chart": map[string]interface{}{
			"result": []interface{}{
				map[string]interface{}{
					"timestamp": timestamps,
					"indicators": map[string]interface{}{
						"quote":    []interface{}{map[string]interface{}{"close": closes}},
						"adjclose": []interface{}{map[string]interface{}{"adjclose": adjcloses}},
					},
				},
			},
			"error": nil,
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func chartServer(t *testing.T, bodies map[string]string, hits *sync.Map) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"))
		symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))

		if hits != nil {
			n, _ := hits.LoadOrStore(symbol, 0)
			hits.Store(symbol, n.(int)+1)
		}

		body, ok := bodies[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

var testStart = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAdjustedClose(t *testing.T) {
	ts := []int64{1700000000, 1700086400, 1700172800}
	server := chartServer(t, map[string]string{
		"EWJ": chartBody(ts,
			[]interface{}{100.0, 101.0, 102.0},
			[]interface{}{99.0, 100.0, 101.0}),
	}, nil)
	defer server.Close()

	y := NewYahooMarketData(WithBaseURL(server.URL))

	out, err := y.AdjustedClose(context.Background(), []string{"ewj", "EWJ", "MISSING"}, testStart)
	require.NoError(t, err)

	require.Contains(t, out, "EWJ")
	assert.NotContains(t, out, "MISSING", "failed tickers are omitted, not errors")

	s := out["EWJ"]
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{99.0, 100.0, 101.0}, s.Values(), "adjusted closes preferred over raw closes")
}

func TestAdjustedClose_SkipsNullBars(t *testing.T) {
	ts := []int64{1700000000, 1700086400, 1700172800}
	server := chartServer(t, map[string]string{
		"EWZ": chartBody(ts,
			[]interface{}{100.0, nil, 102.0},
			[]interface{}{100.0, nil, 102.0}),
	}, nil)
	defer server.Close()

	y := NewYahooMarketData(WithBaseURL(server.URL))
	out, err := y.AdjustedClose(context.Background(), []string{"EWZ"}, testStart)
	require.NoError(t, err)
	assert.Equal(t, 2, out["EWZ"].Len())
}

func TestFXVersusUSD_InvertsUSDLocalQuotes(t *testing.T) {
	ts := []int64{1700000000, 1700086400}
	server := chartServer(t, map[string]string{
		"JPY=X": chartBody(ts, []interface{}{150.0, 120.0}, []interface{}{150.0, 120.0}),
	}, nil)
	defer server.Close()

	y := NewYahooMarketData(WithBaseURL(server.URL))
	out, err := y.FXVersusUSD(context.Background(), []string{"Japan"}, testStart)
	require.NoError(t, err)

	require.Contains(t, out, "Japan")
	values := out["Japan"].Values()
	require.Len(t, values, 2)
	assert.InDelta(t, 1.0/150.0, values[0], 1e-12)
	assert.InDelta(t, 1.0/120.0, values[1], 1e-12)
	assert.Greater(t, values[1], values[0], "a falling USDJPY means a strengthening yen")
}

func TestFXVersusUSD_SharedTickerFetchedOnce(t *testing.T) {
	ts := []int64{1700000000, 1700086400}
	var hits sync.Map
	server := chartServer(t, map[string]string{
		"EUR=X": chartBody(ts, []interface{}{1.05, 1.08}, []interface{}{1.05, 1.08}),
	}, &hits)
	defer server.Close()

	y := NewYahooMarketData(WithBaseURL(server.URL))
	out, err := y.FXVersusUSD(context.Background(), []string{"Germany", "France", "Atlantis"}, testStart)
	require.NoError(t, err)

	assert.Contains(t, out, "Germany")
	assert.Contains(t, out, "France")
	assert.NotContains(t, out, "Atlantis", "unmapped countries are absent")

	n, ok := hits.Load("EUR=X")
	require.True(t, ok)
	assert.Equal(t, 1, n, "euro-bloc countries share one download")
}

// fakeStore is an in-memory cache.Store.
type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", fmt.Errorf("cache miss: %s", key)
	}
	return v, nil
}

func (f *fakeStore) Set(_ context.Context, key, val string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = val
	return nil
}

func TestAdjustedClose_UsesCache(t *testing.T) {
	ts := []int64{1700000000, 1700086400}
	var hits sync.Map
	server := chartServer(t, map[string]string{
		"EWJ": chartBody(ts, []interface{}{100.0, 101.0}, []interface{}{100.0, 101.0}),
	}, &hits)
	defer server.Close()

	store := newFakeStore()
	y := NewYahooMarketData(WithBaseURL(server.URL), WithCache(store))

	first, err := y.AdjustedClose(context.Background(), []string{"EWJ"}, testStart)
	require.NoError(t, err)
	second, err := y.AdjustedClose(context.Background(), []string{"EWJ"}, testStart)
	require.NoError(t, err)

	assert.Equal(t, first["EWJ"].Values(), second["EWJ"].Values())

	n, ok := hits.Load("EWJ")
	require.True(t, ok)
	assert.Equal(t, 1, n, "second run is served from the cache")
}

func TestAdjustedClose_CancelledContext(t *testing.T) {
	server := chartServer(t, map[string]string{}, nil)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	y := NewYahooMarketData(WithBaseURL(server.URL))
	_, err := y.AdjustedClose(ctx, []string{"EWJ"}, testStart)
	assert.Error(t, err)
}
