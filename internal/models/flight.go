package models

import "fmt"

const (
	TagCheapest = "cheapest"
	TagFastest  = "fastest"
)

type Endpoint struct {
	Time    string `json:"time"`
	Date    string `json:"date"`
	Airport string `json:"airport"`
	City    string `json:"city"`
}

// Flight is one normalized, UI-ready offer.
type Flight struct {
	ID              string   `json:"id"`
	Airline         string   `json:"airline"`
	FlightNumber    string   `json:"flightNumber,omitempty"`
	Price           float64  `json:"price"`
	Currency        string   `json:"currency"`
	Departure       Endpoint `json:"departure"`
	Arrival         Endpoint `json:"arrival"`
	DurationMinutes int      `json:"durationMinutes"`
	Duration        string   `json:"duration"`
	Stops           int      `json:"stops"`
	Layovers        []string `json:"layovers"`
	CabinClass      string   `json:"class"`
	Tags            []string `json:"tags"`
	BookingToken    string   `json:"token,omitempty"`
}

func (f Flight) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type SearchSummary struct {
	TotalResults    int     `json:"totalResults"`
	CheapestPrice   float64 `json:"cheapestPrice"`
	FastestDuration string  `json:"fastestDuration"`
	AveragePrice    float64 `json:"averagePrice"`
	Currency        string  `json:"currency"`
	Origin          string  `json:"origin,omitempty"`
	Destination     string  `json:"destination,omitempty"`
	Date            string  `json:"date,omitempty"`
	Message         string  `json:"message,omitempty"`
	Skipped         int     `json:"-"`
}

// WithRoute returns a copy of s describing the searched route. An empty
// result set gets a human-readable "no flights" message.
func (s SearchSummary) WithRoute(origin, destination, date string) SearchSummary {
	s.Origin = origin
	s.Destination = destination
	s.Date = date
	if s.TotalResults == 0 {
		s.Message = fmt.Sprintf("No flights found from %s to %s on %s", origin, destination, date)
	}
	return s
}

// FlightResult is the structured payload attached to a chat reply.
type FlightResult struct {
	Flights []Flight      `json:"flights"`
	Summary SearchSummary `json:"summary"`
}

// Location is one match returned by a destination lookup.
type Location struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Code        string `json:"code,omitempty"`
	Type        string `json:"type,omitempty"`
	CityName    string `json:"cityName,omitempty"`
}
