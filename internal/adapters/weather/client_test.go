package weather_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/acreblitz/fieldgate/internal/adapters/weather"
)

type memoryCache struct {
	store map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.store[key]
	if !ok {
		return nil, fmt.Errorf("miss")
	}
	return data, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ int) error {
	m.store[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.store, key)
	return nil
}

// newNWSServer fakes the four NWS endpoints the client touches. breakObs
// makes the latest-observation endpoint return 500.
func newNWSServer(t *testing.T, pointCalls *atomic.Int32, breakObs bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		pointCalls.Add(1)
		if r.Header.Get("Accept") != "application/geo+json" {
			t.Errorf("Accept = %q, want application/geo+json", r.Header.Get("Accept"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		fmt.Fprintf(w, `{"properties":{
			"gridId":"DMX","gridX":61,"gridY":42,
			"forecastHourly":"%[1]s/gridpoints/DMX/61,42/forecast/hourly",
			"observationStations":"%[1]s/gridpoints/DMX/61,42/stations",
			"relativeLocation":{"properties":{"city":"Ames","state":"IA"}}}}`, srv.URL)
	})
	mux.HandleFunc("/gridpoints/DMX/61,42/forecast/hourly", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"properties":{"periods":[
			{"startTime":"2026-08-24T10:00:00-05:00","temperature":78,"temperatureUnit":"F",
			 "probabilityOfPrecipitation":{"value":20},"relativeHumidity":{"value":65},
			 "windSpeed":"10 mph","windDirection":"NW","icon":"day/few","shortForecast":"Sunny","isDaytime":true},
			{"startTime":"2026-08-24T11:00:00-05:00","temperature":81,"temperatureUnit":"F",
			 "probabilityOfPrecipitation":{"value":null},"relativeHumidity":{"value":60},
			 "windSpeed":"12 mph","windDirection":"NW","icon":"day/few","shortForecast":"Sunny","isDaytime":true}
		]}}`)
	})
	mux.HandleFunc("/gridpoints/DMX/61,42/stations", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"features":[{"id":"%s/stations/KAMW"}]}`, srv.URL)
	})
	mux.HandleFunc("/stations/KAMW/observations/latest", func(w http.ResponseWriter, _ *http.Request) {
		if breakObs {
			http.Error(w, "upstream broken", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"properties":{
			"timestamp":"2026-08-24T14:52:00Z","textDescription":"Clear","icon":"day/skc",
			"temperature":{"value":25.0},"relativeHumidity":{"value":62.5},
			"windSpeed":{"value":14.8},"windDirection":{"value":310},
			"barometricPressure":{"value":101325}}}`)
	})

	srv = httptest.NewServer(mux)
	return srv
}

func TestGetForecast(t *testing.T) {
	var pointCalls atomic.Int32
	srv := newNWSServer(t, &pointCalls, false)
	defer srv.Close()

	client := weather.NewClient(srv.URL, "test-agent", nil)
	fc, err := client.GetForecast(context.Background(), 42.03, -93.62)
	if err != nil {
		t.Fatalf("GetForecast: %v", err)
	}

	if fc.Location.City != "Ames" || fc.Location.State != "IA" {
		t.Errorf("location = %+v, want Ames, IA", fc.Location)
	}
	if len(fc.Hourly) != 2 {
		t.Fatalf("hourly periods = %d, want 2", len(fc.Hourly))
	}
	if fc.Hourly[0].Temperature != 78 {
		t.Errorf("first period temperature = %d, want 78", fc.Hourly[0].Temperature)
	}
	if fc.Hourly[1].PrecipitationChance != nil {
		t.Errorf("null precipitation chance decoded as %v, want nil", *fc.Hourly[1].PrecipitationChance)
	}

	if fc.Current == nil {
		t.Fatal("current conditions missing")
	}
	// 25 C -> 77 F
	if fc.Current.Temperature == nil || *fc.Current.Temperature != 77 {
		t.Errorf("current temperature = %v, want 77 F", fc.Current.Temperature)
	}
	if fc.Current.Description != "Clear" {
		t.Errorf("description = %q, want Clear", fc.Current.Description)
	}
}

func TestGetForecastDegradesWithoutObservations(t *testing.T) {
	var pointCalls atomic.Int32
	srv := newNWSServer(t, &pointCalls, true)
	defer srv.Close()

	client := weather.NewClient(srv.URL, "test-agent", nil)
	fc, err := client.GetForecast(context.Background(), 42.03, -93.62)
	if err != nil {
		t.Fatalf("GetForecast should survive a failed observation fetch, got %v", err)
	}
	if fc.Current != nil {
		t.Errorf("current = %+v, want nil after observation failure", fc.Current)
	}
	if len(fc.Hourly) != 2 {
		t.Errorf("hourly periods = %d, want 2 despite degraded current conditions", len(fc.Hourly))
	}
}

func TestGridPointCached(t *testing.T) {
	var pointCalls atomic.Int32
	srv := newNWSServer(t, &pointCalls, false)
	defer srv.Close()

	cache := &memoryCache{store: make(map[string][]byte)}
	client := weather.NewClient(srv.URL, "test-agent", cache)

	if _, err := client.GetGridPoint(context.Background(), 42.03, -93.62); err != nil {
		t.Fatalf("first GetGridPoint: %v", err)
	}
	gp, err := client.GetGridPoint(context.Background(), 42.03, -93.62)
	if err != nil {
		t.Fatalf("second GetGridPoint: %v", err)
	}
	if pointCalls.Load() != 1 {
		t.Errorf("points endpoint hit %d times, want 1", pointCalls.Load())
	}
	if gp.GridID != "DMX" || gp.GridX != 61 || gp.GridY != 42 {
		t.Errorf("cached grid point = %+v", gp)
	}
}
