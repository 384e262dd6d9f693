package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dharmasatrya/jetset/internal/cache"
	"github.com/dharmasatrya/jetset/internal/models"
	"github.com/dharmasatrya/jetset/internal/ratelimit"
)

const (
	ToolSearchLocation = "Search_Flight_Location"
	ToolSearchFlights  = "Search_Flights"
)

type Config struct {
	LanguageCode string
	CurrencyCode string
}

func DefaultConfig() Config {
	return Config{LanguageCode: "en-us", CurrencyCode: "USD"}
}

// FlightQuery is a search between two resolved location ids.
type FlightQuery struct {
	FromID     string
	ToID       string
	DepartDate string
	ReturnDate string
	Adults     int
	CabinClass models.CabinClass
}

// Gateway is the only component that talks to the travel data service.
// It never retries; every call waits on the travel rate limiter first.
type Gateway struct {
	transport Transport
	limiter   *ratelimit.Limiter
	cache     cache.Cache
	cfg       Config
	logger    *slog.Logger
}

func New(t Transport, limiter *ratelimit.Limiter, c cache.Cache, cfg Config) *Gateway {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	def := DefaultConfig()
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = def.LanguageCode
	}
	if cfg.CurrencyCode == "" {
		cfg.CurrencyCode = def.CurrencyCode
	}
	return &Gateway{
		transport: t,
		limiter:   limiter,
		cache:     c,
		cfg:       cfg,
		logger:    slog.Default().With(slog.String("component", "gateway")),
	}
}

// LookupLocation returns the provider's matches for a place name in the
// provider's order. Callers use the first one.
func (g *Gateway) LookupLocation(ctx context.Context, name string) ([]models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &LookupError{Query: name, Reason: "empty place name"}
	}

	key := cache.LocationKey{Query: name, LanguageCode: g.cfg.LanguageCode}
	if locations, ok := g.cache.GetLocations(ctx, key); ok && len(locations) > 0 {
		return locations, nil
	}

	if err := g.limiter.Wait(ctx, ratelimit.UpstreamTravel); err != nil {
		return nil, &LookupError{Query: name, Reason: "rate limit wait", Err: err}
	}

	res, err := g.transport.CallTool(ctx, ToolSearchLocation, map[string]any{
		"_endpoint":    "/api/v1/flights/searchDestination",
		"_method":      "GET",
		"query":        name,
		"languagecode": g.cfg.LanguageCode,
	})
	if err != nil {
		return nil, &LookupError{Query: name, Reason: "tool call failed", Err: err}
	}

	locations, err := parseLocations(Unwrap(res))
	if err != nil {
		return nil, &LookupError{Query: name, Reason: err.Error()}
	}
	if len(locations) == 0 {
		return nil, &LookupError{Query: name, Reason: "no matching location"}
	}

	if err := g.cache.SetLocations(ctx, key, locations); err != nil {
		g.logger.Warn("cache locations failed", slog.String("query", name), slog.String("error", err.Error()))
	}
	return locations, nil
}

// SearchFlights returns the raw provider offers for q. A well-formed answer
// without offers yields an empty slice and no error.
func (g *Gateway) SearchFlights(ctx context.Context, q FlightQuery) ([]json.RawMessage, error) {
	if q.Adults < 1 {
		q.Adults = 1
	}
	if q.CabinClass == "" {
		q.CabinClass = models.CabinEconomy
	}

	key := cache.OfferKey{
		FromID:       q.FromID,
		ToID:         q.ToID,
		DepartDate:   q.DepartDate,
		ReturnDate:   q.ReturnDate,
		Adults:       q.Adults,
		CabinClass:   string(q.CabinClass),
		CurrencyCode: g.cfg.CurrencyCode,
	}
	if offers, ok := g.cache.GetOffers(ctx, key); ok {
		return offers, nil
	}

	if err := g.limiter.Wait(ctx, ratelimit.UpstreamTravel); err != nil {
		return nil, &SearchError{Reason: "rate limit wait", Err: err}
	}

	args := map[string]any{
		"_endpoint":     "/api/v1/flights/searchFlights",
		"_method":       "GET",
		"fromId":        q.FromID,
		"toId":          q.ToID,
		"departDate":    q.DepartDate,
		"adults":        strconv.Itoa(q.Adults),
		"cabinClass":    string(q.CabinClass),
		"currency_code": g.cfg.CurrencyCode,
	}
	if q.ReturnDate != "" {
		args["returnDate"] = q.ReturnDate
	}

	res, err := g.transport.CallTool(ctx, ToolSearchFlights, args)
	if err != nil {
		return nil, &SearchError{Reason: "tool call failed", Err: err}
	}

	offers, err := parseOffers(Unwrap(res))
	if err != nil {
		return nil, err
	}

	if err := g.cache.SetOffers(ctx, key, offers); err != nil {
		g.logger.Warn("cache offers failed", slog.String("error", err.Error()))
	}
	return offers, nil
}

func (g *Gateway) Close() error {
	return g.transport.Close()
}

func parseLocations(v any) ([]models.Location, error) {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		if status, ok := t["status"].(bool); ok && !status {
			return nil, fmt.Errorf("provider refused lookup: %s", messageOf(t))
		}
		data, ok := t["data"].([]any)
		if !ok {
			return nil, fmt.Errorf("response has no location list")
		}
		items = data
	default:
		return nil, fmt.Errorf("unexpected response of type %T", v)
	}

	locations := make([]models.Location, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := stringField(m, "id")
		if id == "" {
			continue
		}
		locations = append(locations, models.Location{
			ID:          id,
			DisplayName: stringField(m, "name"),
			Code:        stringField(m, "code"),
			Type:        stringField(m, "type"),
			CityName:    stringField(m, "cityName"),
		})
	}
	return locations, nil
}

func parseOffers(v any) ([]json.RawMessage, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &SearchError{Reason: fmt.Sprintf("unexpected response of type %T", v)}
	}
	if status, ok := m["status"].(bool); ok && !status {
		return nil, &SearchError{Reason: "provider refused search: " + messageOf(m)}
	}

	data, ok := m["data"].(map[string]any)
	if !ok {
		return nil, &SearchError{Reason: "response has no data object"}
	}

	list, _ := data["flightOffers"].([]any)
	offers := make([]json.RawMessage, 0, len(list))
	for _, item := range list {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		offers = append(offers, raw)
	}
	return offers, nil
}

func messageOf(m map[string]any) string {
	switch msg := m["message"].(type) {
	case string:
		if msg != "" {
			return msg
		}
	case nil:
	default:
		return fmt.Sprint(msg)
	}
	return "no reason given"
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
