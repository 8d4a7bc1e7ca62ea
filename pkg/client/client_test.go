package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/greengenius/greengenius/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyPlant(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/identify", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"image_base64":"abc","pot_id":""}`, string(body))

			_, _ = w.Write([]byte(`{"identification":{"id":"1","name":"Rose","probability":0.8,"similar_images":[]},"confidence":80,"details":null}`))
		}))
		defer server.Close()

		resp, err := New(server.URL+"/", WithToken("tok")).IdentifyPlant(context.Background(), "abc")

		require.NoError(t, err)
		require.NotNil(t, resp.Identification)
		assert.Equal(t, "Rose", resp.Identification.Name)
		assert.Equal(t, 80.0, resp.Confidence)
	})

	t.Run("server detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"Plant.id API key is missing."}`))
		}))
		defer server.Close()

		_, err := New(server.URL).IdentifyPlant(context.Background(), "abc")
		assert.EqualError(t, err, "Plant.id API key is missing.")
	})

	t.Run("generic failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := New(server.URL).IdentifyPlant(context.Background(), "abc")
		assert.EqualError(t, err, "Failed to identify plant")
	})
}

func TestGetSensorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"temperature":22.1,"humidity":44.9,"light_level":512,"soil_moisture":38}`))
	}))
	defer server.Close()

	status, err := New(server.URL).GetSensorStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, types.SensorStatus{Temperature: 22.1, Humidity: 44.9, LightLevel: 512, SoilMoisture: 38}, *status)

	_, err = New(server.URL + "/missing").GetSensorStatus(context.Background())
	assert.EqualError(t, err, "Failed to fetch sensor status")
}

func TestAnalyzeHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		if r.Header.Get("X-Fail") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		assert.JSONEq(t, `{"plant_data":null,"sensor_data":{"temperature":5,"humidity":0,"light_level":0,"soil_moisture":50}}`, string(body))
		_, _ = w.Write([]byte(`{"status":"Needs Attention","issues":["Too Cold"],"recommendations":["Raise temperature above 10°C"],"details":{"sensor_readings":{"temperature":5,"humidity":0,"light_level":0,"soil_moisture":50},"ideal_ranges":{"temperature":"10 - 30","moisture":"20% - 80% (Est.)"}}}`))
	}))
	defer server.Close()

	result, err := New(server.URL).AnalyzeHealth(context.Background(), nil, types.SensorStatus{Temperature: 5, SoilMoisture: 50})

	require.NoError(t, err)
	assert.Equal(t, "Needs Attention", result.Status)
	assert.Equal(t, []string{"Too Cold"}, result.Issues)

	failing := New(server.URL, WithHTTPClient(&http.Client{Transport: headerTransport{"X-Fail", "1"}}))
	_, err = failing.AnalyzeHealth(context.Background(), nil, types.SensorStatus{})
	assert.EqualError(t, err, "Failed to analyze health")
}

type headerTransport struct {
	key, value string
}

func (h headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(h.key, h.value)
	return http.DefaultTransport.RoundTrip(req)
}
