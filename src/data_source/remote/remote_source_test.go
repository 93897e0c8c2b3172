package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-pulse/src/helpers"
	"token-pulse/src/models"
	"token-pulse/src/network"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *RemoteSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &models.MConfig{Network: models.MNetworkConfig{RequestTimeout: 2}}
	nm := network.NewAsyncNetworkManager(cfg, nil)
	nm.RetryDelay = time.Millisecond
	return NewRemoteSource(srv.URL+"/", nm, nil)
}

func TestRemoteSource_FetchAndQuote(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/columns":
			w.Write([]byte(`{"columns":[{"title":"New Pairs","records":[
				{"id":"1","symbol":"PEPE","name":"Pepe","price":"$0.000100","market_cap":"$10.0K","liquidity":"1.0 BNB"},
				{"id":"2","symbol":"BONK","name":"Bonk","price":"$2.00","market_cap":"$20.0K","liquidity":"2.0 BNB"}]}]}`))
		case "/quotes":
			assert.Equal(t, "1,2", r.URL.Query().Get("ids"))
			w.Write([]byte(`{"quotes":[{"id":"1","price":0.00012}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	assert.Equal(t, "remote", src.Name())

	cols, err := src.FetchInitialData(context.Background())
	require.NoError(t, err)
	require.Len(t, cols, 1)
	require.Equal(t, 2, cols[0].Count())

	next, err := src.NextBatch(context.Background(), cols)
	require.NoError(t, err)
	require.Len(t, next, 1)

	assert.Equal(t, "$0.000120", next[0].Records[0].Price)
	assert.Equal(t, models.DirectionUp, next[0].Records[0].PriceChangeDirection)
	assert.Equal(t, "$2.00", next[0].Records[1].Price)
	assert.Equal(t, models.DirectionNeutral, next[0].Records[1].PriceChangeDirection)
}

func TestRemoteSource_EmptyColumns(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"columns":[]}`))
	})
	_, err := src.FetchInitialData(context.Background())

	var dsErr *helpers.DataSourceError
	assert.ErrorAs(t, err, &dsErr)
}

func TestRemoteSource_BadBody(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	_, err := src.NextBatch(context.Background(), []models.MColumnGroup{{Title: "A"}})

	var dsErr *helpers.DataSourceError
	assert.ErrorAs(t, err, &dsErr)
}

func TestRemoteSource_UpstreamDown(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := src.FetchInitialData(context.Background())

	var netErr *helpers.NetworkError
	assert.ErrorAs(t, err, &netErr)
}
