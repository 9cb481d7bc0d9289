package weather

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openMeteoSuccessResponse = `{
	"latitude": 35.68,
	"longitude": 139.69,
	"daily": {
		"time": ["2024-06-01"],
		"weather_code": [61],
		"temperature_2m_max": [24.3],
		"temperature_2m_min": [17.8]
	}
}`

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func registerOpenMeteoResponder(t *testing.T, status int, body string) {
	t.Helper()
	httpmock.RegisterResponder("GET", `=~^https://api\.open-meteo\.com/v1/forecast`,
		httpmock.NewStringResponder(status, body))
}

func TestOpenMeteoProvider_FetchDaily_Success(t *testing.T) {
	setupHTTPMock(t)
	registerOpenMeteoResponder(t, http.StatusOK, openMeteoSuccessResponse)

	provider := NewOpenMeteoProvider(35.6895, 139.6917)

	data, err := provider.FetchDaily(context.Background(), "2024-06-01")

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "2024-06-01", data.Date)
	require.NotNil(t, data.WeatherCode)
	assert.Equal(t, 61, *data.WeatherCode)
	require.NotNil(t, data.TempMax)
	assert.InDelta(t, 24.3, *data.TempMax, 0.01)
	require.NotNil(t, data.TempMin)
	assert.InDelta(t, 17.8, *data.TempMin, 0.01)
}

func TestOpenMeteoProvider_FetchDaily_HTTPError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"bad_request", http.StatusBadRequest},
		{"too_many_requests", http.StatusTooManyRequests},
		{"internal_server_error", http.StatusInternalServerError},
		{"service_unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHTTPMock(t)
			registerOpenMeteoResponder(t, tt.statusCode, `{"error": true}`)

			provider := NewOpenMeteoProvider(35.6895, 139.6917)

			data, err := provider.FetchDaily(context.Background(), "2024-06-01")

			require.Error(t, err)
			assert.Nil(t, data)
			assert.Contains(t, err.Error(), "non-OK response")
		})
	}
}

func TestOpenMeteoProvider_FetchDaily_InvalidJSON(t *testing.T) {
	setupHTTPMock(t)
	registerOpenMeteoResponder(t, http.StatusOK, `{invalid json`)

	provider := NewOpenMeteoProvider(35.6895, 139.6917)

	data, err := provider.FetchDaily(context.Background(), "2024-06-01")

	require.Error(t, err)
	assert.Nil(t, data)
}

func TestOpenMeteoProvider_FetchDaily_EmptyDaily(t *testing.T) {
	setupHTTPMock(t)
	registerOpenMeteoResponder(t, http.StatusOK, `{"daily": {"time": []}}`)

	provider := NewOpenMeteoProvider(35.6895, 139.6917)

	data, err := provider.FetchDaily(context.Background(), "2024-06-01")

	require.Error(t, err)
	assert.Nil(t, data)
	assert.Contains(t, err.Error(), "no weather data available")
}

func TestOpenMeteoProvider_FetchDaily_RequestsSingleDate(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder("GET", `=~^https://api\.open-meteo\.com/v1/forecast`,
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "2024-06-01", q.Get("start_date"))
			assert.Equal(t, "2024-06-01", q.Get("end_date"))
			assert.Equal(t, "weather_code,temperature_2m_max,temperature_2m_min", q.Get("daily"))
			return httpmock.NewStringResponse(http.StatusOK, openMeteoSuccessResponse), nil
		})

	provider := NewOpenMeteoProvider(35.6895, 139.6917)

	_, err := provider.FetchDaily(context.Background(), "2024-06-01")
	require.NoError(t, err)
}
