package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/jetset/internal/config"
	"github.com/dharmasatrya/jetset/internal/extractor"
)

const oracleAnswer = "Sure!\n```json\n" +
	`{"type": "flight_search", "origin": "Sydney", "destination": "Singapore", "date": "2026-03-10", "adults": 2, "cabin_class": "business class"}` +
	"\n```"

func oracleServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": oracleAnswer},
				"finish_reason": "stop",
			}},
		})
	}))
}

type travelCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type travelCalls struct {
	mu    sync.Mutex
	calls []travelCall
}

func (c *travelCalls) add(call travelCall) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *travelCalls) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

func (c *travelCalls) snapshot() []travelCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]travelCall(nil), c.calls...)
}

func travelServer(t *testing.T, calls *travelCalls) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mcp-rest/tools/call", r.URL.Path)

		var call travelCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		calls.add(call)

		var payload any
		switch {
		case strings.HasSuffix(call.Name, "Search_Flight_Location"):
			query, _ := call.Arguments["query"].(string)
			code := strings.ToUpper(query[:3])
			payload = map[string]any{"status": true, "data": []any{
				map[string]any{"id": code + ".CITY", "name": query, "code": code, "type": "CITY"},
			}}
		case strings.HasSuffix(call.Name, "Search_Flights"):
			payload = map[string]any{"status": true, "data": map[string]any{"flightOffers": []any{
				map[string]any{
					"token":          "tok-1",
					"priceBreakdown": map[string]any{"totalRounded": map[string]any{"currencyCode": "USD", "units": 1219}},
					"segments": []any{map[string]any{"totalTime": 29100, "legs": []any{map[string]any{
						"departureTime":    "2026-03-10T08:45:00",
						"arrivalTime":      "2026-03-10T14:50:00",
						"departureAirport": map[string]any{"code": "SYD", "cityName": "Sydney"},
						"arrivalAirport":   map[string]any{"code": "SIN", "cityName": "Singapore"},
						"carriersData":     []any{map[string]any{"name": "Singapore Airlines", "code": "SQ"}},
						"flightInfo":       map[string]any{"flightNumber": 212},
					}}}},
				},
			}}}
		default:
			t.Errorf("unexpected tool %q", call.Name)
		}

		text, err := json.Marshal(payload)
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode([]map[string]any{{"type": "text", "text": string(text)}})
	}))
}

func testConfig(oracleURL, travelURL string) *config.Config {
	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.Oracle.BaseURL = oracleURL
	cfg.Oracle.APIKey = "test-key"
	cfg.Oracle.RequestsPerSecond = 0
	cfg.Travel.BaseURL = travelURL
	cfg.Travel.APIKey = "travel-key"
	cfg.Travel.ServerID = "srv-1"
	cfg.Travel.RequestsPerSecond = 0
	return cfg
}

func TestApp_ChatTurnAgainstServices(t *testing.T) {
	oracleSrv := oracleServer(t)
	defer oracleSrv.Close()
	calls := &travelCalls{}
	travelSrv := travelServer(t, calls)
	defer travelSrv.Close()

	for _, storeType := range []string{config.StoreMemory, config.StoreSQLite} {
		t.Run(storeType, func(t *testing.T) {
			calls.reset()
			cfg := testConfig(oracleSrv.URL, travelSrv.URL)
			cfg.Store.Type = storeType
			cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "jetset.db")

			a, err := New(cfg)
			require.NoError(t, err)
			ctx, cancel := context.WithCancel(context.Background())
			a.Start(ctx)
			defer func() {
				cancel()
				assert.NoError(t, a.Close())
			}()

			reply := a.Orchestrator.HandleChat(ctx, "Sydney to Singapore on March 10 for two in business", "conv-1")

			assert.Empty(t, reply.ErrorCode)
			assert.Equal(t, extractor.KindFlightSearch, reply.Intent)
			require.NotNil(t, reply.Flights)
			require.Len(t, reply.Flights.Flights, 1)
			f := reply.Flights.Flights[0]
			assert.Equal(t, "SQ212", f.FlightNumber)
			assert.Equal(t, "Business", f.CabinClass)
			assert.Contains(t, reply.Text, "$1,219")

			made := calls.snapshot()
			require.Len(t, made, 3)
			search := made[2]
			assert.Equal(t, "Search_Flights", search.Name)
			assert.Equal(t, "SYD.CITY", search.Arguments["fromId"])
			assert.Equal(t, "SIN.CITY", search.Arguments["toId"])
			assert.Equal(t, "2026-03-10", search.Arguments["departDate"])
			assert.Equal(t, "2", search.Arguments["adults"])
			assert.Equal(t, "BUSINESS", search.Arguments["cabinClass"])

			conv, err := a.Store.Get(ctx, "conv-1")
			require.NoError(t, err)
			require.NotNil(t, conv.LastSearch)
			assert.Equal(t, "2026-03-10", conv.LastSearch.ResolvedDate)

			require.NoError(t, a.Orchestrator.Reset(ctx, "conv-1"))
			_, err = a.Store.Get(ctx, "conv-1")
			assert.Error(t, err)
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Type = "postgres"

	_, err := New(cfg)
	assert.ErrorContains(t, err, "store.type")
}

func TestNew_MCPTransport(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1", "http://127.0.0.1:1/mcp")
	cfg.Travel.Transport = config.TransportMCP

	a, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, a.Orchestrator)
	assert.NoError(t, a.Close())
}
