package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Upstream requests use one short fixed timeout; callers see failures
// immediately instead of queueing behind a slow weather API.
const requestTimeout = 5 * time.Second

// ErrNotConfigured is returned when no weather API key is set.
var ErrNotConfigured = errors.New("weather service not configured: api key is required")

// Client fetches current conditions from the OpenWeatherMap API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a weather client. The API key may be empty, in which case
// every lookup fails with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithBaseURL builds a client against a non-default endpoint, for
// API-compatible proxies and tests.
func NewClientWithBaseURL(apiKey, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

type currentResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
}

// Current fetches the weather for city and renders the one-line report
// returned to the model.
func (c *Client) Current(ctx context.Context, city string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return "", fmt.Errorf("build weather request: %w", err)
	}
	q := req.URL.Query()
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Kind: ErrKindRequest, City: city, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Kind: ErrKindRequest, City: city, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{Kind: ErrKindStatus, City: city, Err: fmt.Errorf("weather API returned %s", resp.Status)}
	}

	var parsed currentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &UpstreamError{Kind: ErrKindDecode, City: city, Err: err}
	}
	if len(parsed.Weather) == 0 {
		return "", &UpstreamError{Kind: ErrKindDecode, City: city, Err: errors.New("response has no weather conditions")}
	}

	return fmt.Sprintf(
		"Weather in %s: %s, Temperature: %.1f°C (feels like %.1f°C), Humidity: %d%%",
		city,
		parsed.Weather[0].Description,
		parsed.Main.Temp,
		parsed.Main.FeelsLike,
		parsed.Main.Humidity,
	), nil
}
