package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lazytravel/pkg/utils"
)

func TestFormatTravelLabel(t *testing.T) {
	assert.Equal(t, "1 min walk", formatTravelLabel(0))
	assert.Equal(t, "5 min walk", formatTravelLabel(400))
	assert.Equal(t, "15 min walk", formatTravelLabel(1199))
	assert.Equal(t, "~3 min drive", formatTravelLabel(1200))
	assert.Equal(t, "~10 min drive", formatTravelLabel(5000))
}

func matrixTestServer(t *testing.T, hits *atomic.Int32, distances [][]*float64) *MatrixEstimator {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"distances": distances,
		})
	}))
	t.Cleanup(server.Close)

	serverURL, err := url.Parse(server.URL)
	require.NoError(t, err)

	return &MatrixEstimator{
		HTTP: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &rewriteHostTransport{
				host: serverURL.Host,
				base: http.DefaultTransport,
			},
		},
		AccessToken: "test-token",
		Cache:       NewInMemoryLegCache(),
		DefaultTTL:  time.Hour,
		Profile:     "driving",
	}
}

type rewriteHostTransport struct {
	host string
	base http.RoundTripper
}

func (t *rewriteHostTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = t.host
	return t.base.RoundTrip(req)
}

func coordLeg(name string, lat, lng float64) utils.TravelLeg {
	return utils.TravelLeg{PlaceName: name, Lat: &lat, Lng: &lng}
}

func TestMatrixEstimatorLabelsConsecutiveLegs(t *testing.T) {
	var hits atomic.Int32
	est := matrixTestServer(t, &hits, [][]*float64{
		{floatPtr(0), floatPtr(1000), floatPtr(9000)},
		{floatPtr(1000), floatPtr(0), floatPtr(5000)},
		{floatPtr(9000), floatPtr(5000), floatPtr(0)},
	})

	legs := []utils.TravelLeg{
		coordLeg("A", 41.38, 2.17),
		coordLeg("B", 41.39, 2.18),
		coordLeg("C", 41.40, 2.19),
	}

	labels, err := est.TravelEstimates(context.Background(), legs)
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "13 min walk", labels[0])
	assert.Equal(t, "~10 min drive", labels[1])
	assert.Equal(t, int32(1), hits.Load())
}

func TestMatrixEstimatorUsesCacheOnRepeat(t *testing.T) {
	var hits atomic.Int32
	est := matrixTestServer(t, &hits, [][]*float64{
		{floatPtr(0), floatPtr(2000)},
		{floatPtr(2000), floatPtr(0)},
	})

	legs := []utils.TravelLeg{
		coordLeg("A", 41.38, 2.17),
		coordLeg("B", 41.39, 2.18),
	}

	_, err := est.TravelEstimates(context.Background(), legs)
	require.NoError(t, err)
	_, err = est.TravelEstimates(context.Background(), legs)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load(), "second request is served from the pair cache")
}

func TestMatrixEstimatorMissingCoordinatesGetEmptyLabel(t *testing.T) {
	var hits atomic.Int32
	est := matrixTestServer(t, &hits, [][]*float64{
		{floatPtr(0), floatPtr(2000)},
		{floatPtr(2000), floatPtr(0)},
	})

	legs := []utils.TravelLeg{
		coordLeg("A", 41.38, 2.17),
		{PlaceName: "No coords"},
		coordLeg("B", 41.39, 2.18),
	}

	labels, err := est.TravelEstimates(context.Background(), legs)
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Empty(t, labels[0])
	assert.Empty(t, labels[1])
}

func TestMatrixEstimatorShortInput(t *testing.T) {
	var hits atomic.Int32
	est := matrixTestServer(t, &hits, nil)

	labels, err := est.TravelEstimates(context.Background(), []utils.TravelLeg{coordLeg("A", 1, 2)})
	require.NoError(t, err)
	assert.Nil(t, labels)
	assert.Equal(t, int32(0), hits.Load())
}
