package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/dharmasatrya/jetset/internal/dates"
	"github.com/dharmasatrya/jetset/internal/models"
	"github.com/dharmasatrya/jetset/internal/ranking"
)

// DefaultLimit bounds how many provider offers are turned into flights.
const DefaultLimit = 8

// CodeMalformedOffer tags log records for offers that were skipped.
const CodeMalformedOffer = "malformed_offer"

var errNoLegs = errors.New("offer has no itinerary legs")

// Normalize converts raw provider offers into flights plus a summary. Only
// the first limit offers are considered; offers that cannot be decoded or
// have no legs are skipped without affecting the rest.
func Normalize(raw []json.RawMessage, cabinLabel string, limit int) ([]models.Flight, models.SearchSummary) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(raw) > limit {
		raw = raw[:limit]
	}

	logger := slog.Default().With(slog.String("component", "normalizer"))

	flights := make([]models.Flight, 0, len(raw))
	summary := models.SearchSummary{FastestDuration: "N/A", Currency: "USD"}

	minPrice := math.Inf(1)
	fastestSeconds := math.MaxInt
	fastestLabel := ""
	total := 0.0

	for i, data := range raw {
		f, seconds, err := normalizeOffer(data, i+1, cabinLabel)
		if err != nil {
			summary.Skipped++
			logger.Warn("skipping malformed offer",
				slog.Int("index", i),
				slog.String("code", CodeMalformedOffer),
				slog.String("error", err.Error()),
			)
			continue
		}

		flights = append(flights, f)
		total += f.Price

		if f.Price < minPrice {
			minPrice = f.Price
		}
		if seconds < fastestSeconds {
			fastestSeconds = seconds
			fastestLabel = f.Duration
		}
	}

	summary.TotalResults = len(flights)
	if len(flights) == 0 {
		return flights, summary
	}

	flights = ranking.ApplyTags(flights, minPrice, fastestLabel)

	summary.CheapestPrice = minPrice
	summary.FastestDuration = fastestLabel
	summary.AveragePrice = math.Round(total / float64(len(flights)))
	summary.Currency = flights[0].Currency

	return flights, summary
}

// DurationLabel renders seconds as "{hours}h {minutes}m".
func DurationLabel(seconds int) string {
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}

func normalizeOffer(data json.RawMessage, position int, cabinLabel string) (models.Flight, int, error) {
	var o offer
	if err := json.Unmarshal(data, &o); err != nil {
		return models.Flight{}, 0, fmt.Errorf("decode offer: %w", err)
	}
	if len(o.Segments) == 0 || len(o.Segments[0].Legs) == 0 {
		return models.Flight{}, 0, errNoLegs
	}

	seg := o.Segments[0]
	first, last := seg.Legs[0], seg.Legs[len(seg.Legs)-1]
	seconds := int(seg.TotalTime)

	airline, carrierCode := "Unknown", ""
	if len(first.CarriersData) > 0 {
		if first.CarriersData[0].Name != "" {
			airline = first.CarriersData[0].Name
		}
		carrierCode = first.CarriersData[0].Code
	}

	flightNumber := ""
	if carrierCode != "" && first.FlightInfo.FlightNumber != "" {
		flightNumber = carrierCode + string(first.FlightInfo.FlightNumber)
	}

	stops := len(seg.Legs) - 1
	layovers := make([]string, 0, stops)
	if stops > 0 {
		for _, l := range seg.Legs[:len(seg.Legs)-1] {
			if l.ArrivalAirport.CityName != "" {
				layovers = append(layovers, l.ArrivalAirport.CityName)
			}
		}
	}

	currency := o.PriceBreakdown.TotalRounded.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	depDate, depTime := dates.SplitDateTime(first.DepartureTime)
	arrDate, arrTime := dates.SplitDateTime(last.ArrivalTime)

	return models.Flight{
		ID:           strconv.Itoa(position),
		Airline:      airline,
		FlightNumber: flightNumber,
		Price:        float64(o.PriceBreakdown.TotalRounded.Units),
		Currency:     currency,
		Departure: models.Endpoint{
			Time:    depTime,
			Date:    depDate,
			Airport: first.DepartureAirport.Code,
			City:    first.DepartureAirport.CityName,
		},
		Arrival: models.Endpoint{
			Time:    arrTime,
			Date:    arrDate,
			Airport: last.ArrivalAirport.Code,
			City:    last.ArrivalAirport.CityName,
		},
		DurationMinutes: seconds / 60,
		Duration:        DurationLabel(seconds),
		Stops:           stops,
		Layovers:        layovers,
		CabinClass:      cabinLabel,
		Tags:            []string{},
		BookingToken:    o.Token,
	}, seconds, nil
}
