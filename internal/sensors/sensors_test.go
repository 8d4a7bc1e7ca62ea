package sensors

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated(t *testing.T) {
	source := NewSimulated(42)

	for i := 0; i < 200; i++ {
		status, err := source.Read(context.Background(), "pot")
		require.NoError(t, err)

		assert.GreaterOrEqual(t, status.Temperature, 20.0)
		assert.LessOrEqual(t, status.Temperature, 24.0)
		assert.GreaterOrEqual(t, status.Humidity, 40.0)
		assert.LessOrEqual(t, status.Humidity, 50.0)
		assert.GreaterOrEqual(t, status.LightLevel, 450.0)
		assert.LessOrEqual(t, status.LightLevel, 550.0)
		assert.GreaterOrEqual(t, status.SoilMoisture, 30.0)
		assert.LessOrEqual(t, status.SoilMoisture, 50.0)

		assert.Equal(t, status.LightLevel, math.Trunc(status.LightLevel))
		assert.Equal(t, status.SoilMoisture, math.Trunc(status.SoilMoisture))
		assert.InDelta(t, status.Temperature, roundTenth(status.Temperature), 1e-9)
	}
}

func TestSimulatedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulated(1).Read(ctx, "pot")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pots/pot-1/status":
			_, _ = w.Write([]byte(`{"temperature":21.5,"humidity":44.2,"light_level":480,"soil_moisture":35}`))
		case "/pots/broken/status":
			_, _ = w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL+"/pots/{pot_id}/status", time.Second)

	status, err := source.Read(context.Background(), "pot-1")
	require.NoError(t, err)
	assert.Equal(t, 21.5, status.Temperature)
	assert.Equal(t, 480.0, status.LightLevel)

	_, err = source.Read(context.Background(), "broken")
	assert.ErrorContains(t, err, "invalid sensor payload")

	_, err = source.Read(context.Background(), "other")
	assert.ErrorContains(t, err, "unexpected status code")
}

func TestNew(t *testing.T) {
	assert.IsType(t, &Simulated{}, New(""))
	assert.IsType(t, &HTTPSource{}, New("http://device.local/status"))
}
