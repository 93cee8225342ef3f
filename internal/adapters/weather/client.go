// Package weather proxies the National Weather Service API. Grid-point
// lookups are cached for 24 hours; hourly forecast and current conditions
// are fetched concurrently, with current conditions degrading to nil on
// failure. US locations only.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/acreblitz/fieldgate/internal/core/ports"
	"github.com/acreblitz/fieldgate/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	gridCacheTTLSeconds = 24 * 60 * 60
	requestTimeout      = 10 * time.Second
	acceptGeoJSON       = "application/geo+json"
)

// Client talks to the NWS API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      ports.CacheService
}

// NewClient creates a weather client. cache may be nil, in which case every
// grid-point lookup hits the API.
func NewClient(baseURL, userAgent string, cache ports.CacheService) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cache,
	}
}

// GridPoint locates a coordinate inside the NWS forecast grid.
type GridPoint struct {
	GridID              string `json:"gridId"`
	GridX               int    `json:"gridX"`
	GridY               int    `json:"gridY"`
	ForecastHourlyURL   string `json:"forecastHourly"`
	ObservationStations string `json:"observationStations"`
	City                string `json:"city"`
	State               string `json:"state"`
}

// HourlyPeriod is one hour of forecast.
type HourlyPeriod struct {
	Time                string `json:"time"`
	Temperature         int    `json:"temperature"`
	TemperatureUnit     string `json:"temperature_unit"`
	PrecipitationChance *int   `json:"precipitation_chance"`
	RelativeHumidity    *int   `json:"relative_humidity"`
	WindSpeed           string `json:"wind_speed"`
	WindDirection       string `json:"wind_direction"`
	Icon                string `json:"icon"`
	ShortForecast       string `json:"short_forecast"`
	IsDaytime           bool   `json:"is_daytime"`
}

// CurrentConditions is the latest observation from the nearest station.
// Temperature is Fahrenheit.
type CurrentConditions struct {
	Timestamp     string   `json:"timestamp"`
	Temperature   *int     `json:"temperature"`
	Unit          string   `json:"temperature_unit"`
	Description   string   `json:"description"`
	Icon          string   `json:"icon"`
	Humidity      *float64 `json:"humidity"`
	WindSpeed     *float64 `json:"wind_speed"`
	WindDirection *float64 `json:"wind_direction"`
	Pressure      *float64 `json:"pressure"`
}

// Location describes where the forecast applies.
type Location struct {
	City   string `json:"city"`
	State  string `json:"state"`
	GridID string `json:"grid_id"`
	GridX  int    `json:"grid_x"`
	GridY  int    `json:"grid_y"`
}

// Forecast bundles current conditions and the hourly forecast for a point.
// Current is nil when the observation fetch failed; the forecast is still
// served.
type Forecast struct {
	Location Location           `json:"location"`
	Current  *CurrentConditions `json:"current_conditions"`
	Hourly   []HourlyPeriod     `json:"hourly_forecast"`
	Updated  time.Time          `json:"updated"`
}

func celsiusToFahrenheit(c *float64) *int {
	if c == nil {
		return nil
	}
	f := int(math.Round(*c*9/5 + 32))
	return &f
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptGeoJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather api unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("weather api error: HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetGridPoint resolves a coordinate to its forecast grid, using the cache
// when warm.
func (c *Client) GetGridPoint(ctx context.Context, lat, lon float64) (*GridPoint, error) {
	cacheKey := fmt.Sprintf("weather:grid:%.4f,%.4f", lat, lon)
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, cacheKey); err == nil {
			var gp GridPoint
			if json.Unmarshal(data, &gp) == nil {
				metrics.CacheHits.WithLabelValues("weather:grid").Inc()
				return &gp, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("weather:grid").Inc()
	}

	var payload struct {
		Properties struct {
			GridID              string `json:"gridId"`
			GridX               int    `json:"gridX"`
			GridY               int    `json:"gridY"`
			ForecastHourly      string `json:"forecastHourly"`
			ObservationStations string `json:"observationStations"`
			RelativeLocation    struct {
				Properties struct {
					City  string `json:"city"`
					State string `json:"state"`
				} `json:"properties"`
			} `json:"relativeLocation"`
		} `json:"properties"`
	}
	url := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		metrics.WeatherFetchErrors.WithLabelValues("points").Inc()
		return nil, err
	}

	gp := &GridPoint{
		GridID:              payload.Properties.GridID,
		GridX:               payload.Properties.GridX,
		GridY:               payload.Properties.GridY,
		ForecastHourlyURL:   payload.Properties.ForecastHourly,
		ObservationStations: payload.Properties.ObservationStations,
		City:                payload.Properties.RelativeLocation.Properties.City,
		State:               payload.Properties.RelativeLocation.Properties.State,
	}
	if c.cache != nil {
		if data, err := json.Marshal(gp); err == nil {
			_ = c.cache.Set(ctx, cacheKey, data, gridCacheTTLSeconds)
		}
	}
	return gp, nil
}

func (c *Client) getHourlyForecast(ctx context.Context, url string) ([]HourlyPeriod, error) {
	timer := prometheus.NewTimer(metrics.WeatherFetchDuration.WithLabelValues("forecast"))
	defer timer.ObserveDuration()

	var payload struct {
		Properties struct {
			Periods []struct {
				StartTime                  string `json:"startTime"`
				Temperature                int    `json:"temperature"`
				TemperatureUnit            string `json:"temperatureUnit"`
				ProbabilityOfPrecipitation struct {
					Value *int `json:"value"`
				} `json:"probabilityOfPrecipitation"`
				RelativeHumidity struct {
					Value *int `json:"value"`
				} `json:"relativeHumidity"`
				WindSpeed     string `json:"windSpeed"`
				WindDirection string `json:"windDirection"`
				Icon          string `json:"icon"`
				ShortForecast string `json:"shortForecast"`
				IsDaytime     bool   `json:"isDaytime"`
			} `json:"periods"`
		} `json:"properties"`
	}
	if err := c.getJSON(ctx, url, &payload); err != nil {
		metrics.WeatherFetchErrors.WithLabelValues("forecast").Inc()
		return nil, err
	}

	periods := make([]HourlyPeriod, 0, len(payload.Properties.Periods))
	for _, p := range payload.Properties.Periods {
		periods = append(periods, HourlyPeriod{
			Time:                p.StartTime,
			Temperature:         p.Temperature,
			TemperatureUnit:     p.TemperatureUnit,
			PrecipitationChance: p.ProbabilityOfPrecipitation.Value,
			RelativeHumidity:    p.RelativeHumidity.Value,
			WindSpeed:           p.WindSpeed,
			WindDirection:       p.WindDirection,
			Icon:                p.Icon,
			ShortForecast:       p.ShortForecast,
			IsDaytime:           p.IsDaytime,
		})
	}
	return periods, nil
}

func (c *Client) getCurrentConditions(ctx context.Context, stationsURL string) (*CurrentConditions, error) {
	timer := prometheus.NewTimer(metrics.WeatherFetchDuration.WithLabelValues("observations"))
	defer timer.ObserveDuration()

	var stations struct {
		Features []struct {
			ID string `json:"id"`
		} `json:"features"`
	}
	if err := c.getJSON(ctx, stationsURL, &stations); err != nil {
		return nil, err
	}
	if len(stations.Features) == 0 {
		return nil, fmt.Errorf("no observation stations found")
	}

	var obs struct {
		Properties struct {
			Timestamp       string `json:"timestamp"`
			TextDescription string `json:"textDescription"`
			Icon            string `json:"icon"`
			Temperature     struct {
				Value *float64 `json:"value"`
			} `json:"temperature"`
			RelativeHumidity struct {
				Value *float64 `json:"value"`
			} `json:"relativeHumidity"`
			WindSpeed struct {
				Value *float64 `json:"value"`
			} `json:"windSpeed"`
			WindDirection struct {
				Value *float64 `json:"value"`
			} `json:"windDirection"`
			BarometricPressure struct {
				Value *float64 `json:"value"`
			} `json:"barometricPressure"`
		} `json:"properties"`
	}
	if err := c.getJSON(ctx, stations.Features[0].ID+"/observations/latest", &obs); err != nil {
		return nil, err
	}

	description := obs.Properties.TextDescription
	if description == "" {
		description = "N/A"
	}
	return &CurrentConditions{
		Timestamp:     obs.Properties.Timestamp,
		Temperature:   celsiusToFahrenheit(obs.Properties.Temperature.Value),
		Unit:          "F",
		Description:   description,
		Icon:          obs.Properties.Icon,
		Humidity:      obs.Properties.RelativeHumidity.Value,
		WindSpeed:     obs.Properties.WindSpeed.Value,
		WindDirection: obs.Properties.WindDirection.Value,
		Pressure:      obs.Properties.BarometricPressure.Value,
	}, nil
}

// GetForecast returns current conditions and the hourly forecast for a
// coordinate. The two sub-fetches run concurrently; a failed current-conditions
// fetch degrades to a nil Current instead of failing the call.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	gp, err := c.GetGridPoint(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	var (
		wg         sync.WaitGroup
		hourly     []HourlyPeriod
		hourlyErr  error
		current    *CurrentConditions
		currentErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		hourly, hourlyErr = c.getHourlyForecast(ctx, gp.ForecastHourlyURL)
	}()
	go func() {
		defer wg.Done()
		current, currentErr = c.getCurrentConditions(ctx, gp.ObservationStations)
	}()
	wg.Wait()

	if hourlyErr != nil {
		return nil, hourlyErr
	}
	if currentErr != nil {
		metrics.WeatherFetchErrors.WithLabelValues("observations").Inc()
		current = nil
	}

	return &Forecast{
		Location: Location{
			City:   gp.City,
			State:  gp.State,
			GridID: gp.GridID,
			GridX:  gp.GridX,
			GridY:  gp.GridY,
		},
		Current: current,
		Hourly:  hourly,
		Updated: time.Now().UTC(),
	}, nil
}
