package cache

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/jetset/internal/models"
)

func TestNoOpCache(t *testing.T) {
	var c Cache = NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, c.SetLocations(ctx, LocationKey{Query: "Sydney"}, []models.Location{{ID: "SYD.AIRPORT"}}))
	_, ok := c.GetLocations(ctx, LocationKey{Query: "Sydney"})
	assert.False(t, ok)

	require.NoError(t, c.SetOffers(ctx, OfferKey{FromID: "SYD.AIRPORT"}, []json.RawMessage{json.RawMessage(`{}`)}))
	_, ok = c.GetOffers(ctx, OfferKey{FromID: "SYD.AIRPORT"})
	assert.False(t, ok)

	assert.NoError(t, c.Close())
}

func TestLocationKey_Normalised(t *testing.T) {
	a := locationKey(LocationKey{Query: "  New   York ", LanguageCode: "en-us"})
	b := locationKey(LocationKey{Query: "new york", LanguageCode: "EN-US"})
	c := locationKey(LocationKey{Query: "new york", LanguageCode: "de"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "location:"))
}

func TestOfferKey_Distinct(t *testing.T) {
	base := OfferKey{FromID: "SYD.AIRPORT", ToID: "SIN.AIRPORT", DepartDate: "2026-02-13", Adults: 1, CabinClass: "ECONOMY", CurrencyCode: "USD"}
	other := base
	other.Adults = 2

	assert.Equal(t, offerKey(base), offerKey(base))
	assert.NotEqual(t, offerKey(base), offerKey(other))
	assert.True(t, strings.HasPrefix(offerKey(base), "offers:"))
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = "1"

	_, err := NewRedisCache(cfg)
	assert.Error(t, err)
}
