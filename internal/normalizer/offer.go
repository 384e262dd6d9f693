package normalizer

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// offer mirrors the provider's flight offer. Only the fields the
// normalizer reads are declared.
type offer struct {
	Token          string         `json:"token"`
	PriceBreakdown priceBreakdown `json:"priceBreakdown"`
	Segments       []segment      `json:"segments"`
}

type priceBreakdown struct {
	TotalRounded money `json:"totalRounded"`
}

type money struct {
	CurrencyCode string      `json:"currencyCode"`
	Units        looseNumber `json:"units"`
}

type segment struct {
	TotalTime looseNumber `json:"totalTime"`
	Legs      []leg       `json:"legs"`
}

type leg struct {
	DepartureTime    string     `json:"departureTime"`
	ArrivalTime      string     `json:"arrivalTime"`
	DepartureAirport airport    `json:"departureAirport"`
	ArrivalAirport   airport    `json:"arrivalAirport"`
	CarriersData     []carrier  `json:"carriersData"`
	FlightInfo       flightInfo `json:"flightInfo"`
}

type airport struct {
	Code     string `json:"code"`
	CityName string `json:"cityName"`
}

type carrier struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type flightInfo struct {
	FlightNumber looseString `json:"flightNumber"`
}

// looseNumber accepts 219, 219.5 and "219".
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = looseNumber(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = looseNumber(f)
	return nil
}

// looseString accepts both "212" and 212.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}
