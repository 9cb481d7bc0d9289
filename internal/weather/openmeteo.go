package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	OpenMeteoBaseURL    = "https://api.open-meteo.com/v1/forecast"
	OpenMeteoUserAgent  = "kokorolog https://github.com/tomohiko/kokorolog"
	OpenMeteoMaxRetries = 3
	OpenMeteoRetryDelay = 2 * time.Second
)

// OpenMeteoProvider fetches daily weather from the Open-Meteo forecast API.
// Open-Meteo reports WMO weather interpretation codes, the code table the
// aggregation layer's weather grouping is built on.
type OpenMeteoProvider struct {
	Latitude  float64
	Longitude float64
	client    *http.Client
}

// NewOpenMeteoProvider creates an Open-Meteo provider for a fixed location.
func NewOpenMeteoProvider(latitude, longitude float64) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		Latitude:  latitude,
		Longitude: longitude,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// OpenMeteoResponse represents the structure of the Open-Meteo API response
type OpenMeteoResponse struct {
	Daily struct {
		Time             []string  `json:"time"`
		WeatherCode      []int     `json:"weather_code"`
		Temperature2mMax []float64 `json:"temperature_2m_max"`
		Temperature2mMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// FetchDaily implements the Provider interface for OpenMeteoProvider
func (p *OpenMeteoProvider) FetchDaily(ctx context.Context, date string) (*DailyWeather, error) {
	url := fmt.Sprintf("%s?latitude=%.6f&longitude=%.6f&daily=weather_code,temperature_2m_max,temperature_2m_min&start_date=%s&end_date=%s&timezone=auto",
		OpenMeteoBaseURL, p.Latitude, p.Longitude, date, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", OpenMeteoUserAgent)

	var response OpenMeteoResponse
	for i := 0; i < OpenMeteoMaxRetries; i++ {
		resp, err := p.client.Do(req)
		if err != nil {
			if i == OpenMeteoMaxRetries-1 {
				return nil, fmt.Errorf("error fetching weather data: %w", err)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(OpenMeteoRetryDelay):
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("received non-OK response: %d", resp.StatusCode)
		}

		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("error unmarshaling weather data: %w", err)
		}

		break
	}

	if len(response.Daily.Time) == 0 {
		return nil, fmt.Errorf("no weather data available for %s", date)
	}

	data := &DailyWeather{Date: response.Daily.Time[0]}
	if len(response.Daily.WeatherCode) > 0 {
		code := response.Daily.WeatherCode[0]
		data.WeatherCode = &code
	}
	if len(response.Daily.Temperature2mMax) > 0 {
		tMax := response.Daily.Temperature2mMax[0]
		data.TempMax = &tMax
	}
	if len(response.Daily.Temperature2mMin) > 0 {
		tMin := response.Daily.Temperature2mMin[0]
		data.TempMin = &tMin
	}

	return data, nil
}
