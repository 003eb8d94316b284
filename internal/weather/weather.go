// Package weather holds the weather domain types and the cached Fetcher that
// front-ends the upstream provider.
package weather

import "time"

// Current is a single observation of current conditions for a city.
type Current struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feelsLike"`
	Conditions  string    `json:"conditions"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	WindSpeed   float64   `json:"windSpeed"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Cached      bool      `json:"cached,omitempty"` // Served from cache without an upstream call
	Stale       bool      `json:"stale,omitempty"`  // Served past the freshness window after an upstream failure
}

// ForecastDay is one day of a forecast, reduced from the provider's
// three-hourly entries to the reading nearest midday.
type ForecastDay struct {
	Date       time.Time `json:"date"`
	TempMin    float64   `json:"tempMin"`
	TempMax    float64   `json:"tempMax"`
	Conditions string    `json:"conditions"`
	Humidity   int       `json:"humidity"`
}

// Forecast is an up-to-five-day outlook for a city.
type Forecast struct {
	City      string        `json:"city"`
	Country   string        `json:"country"`
	Days      []ForecastDay `json:"days"`
	FetchedAt time.Time     `json:"fetchedAt"`
	Cached    bool          `json:"cached,omitempty"`
	Stale     bool          `json:"stale,omitempty"`
}
