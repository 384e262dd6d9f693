package orchestrator

import (
	"fmt"
	"strings"

	"github.com/dharmasatrya/jetset/internal/dates"
	"github.com/dharmasatrya/jetset/internal/models"
	"github.com/dharmasatrya/jetset/internal/ranking"
	"github.com/dharmasatrya/jetset/pkg/currency"
)

const bookingLine = "You can click on any flight card below to book directly! ✨"

// ComposeResults renders the chat reply for a search that found flights.
func ComposeResults(req models.SearchRequest, flights []models.Flight, summary models.SearchSummary) string {
	var b strings.Builder

	noun := "flights"
	if len(flights) == 1 {
		noun = "flight"
	}
	fmt.Fprintf(&b, "✈️ Found %d %s from %s to %s on %s!\n\n",
		len(flights), noun, req.Origin, req.Destination, dates.Human(req.ResolvedDate))

	h := ranking.Pick(flights)
	if h.Cheapest != nil {
		fmt.Fprintf(&b, "💰 **Best Value:** %s\n", highlight(*h.Cheapest))
	}
	if h.Fastest != nil {
		fmt.Fprintf(&b, "⚡ **Fastest:** %s\n", highlight(*h.Fastest))
	}
	if h.Budget != nil {
		fmt.Fprintf(&b, "💵 **Budget Option:** %s\n", highlight(*h.Budget))
	}

	lo, hi := ranking.PriceRange(flights)
	b.WriteString("\n")
	if lo == hi {
		fmt.Fprintf(&b, "📊 **Price:** %s %s\n", currency.Format(lo, summary.Currency), summary.Currency)
	} else {
		fmt.Fprintf(&b, "📊 **Price Range:** %s - %s %s\n",
			currency.Format(lo, summary.Currency), currency.Format(hi, summary.Currency), summary.Currency)
	}

	from, to := req.Origin, req.Destination
	if len(flights) > 0 && flights[0].Departure.Airport != "" && flights[0].Arrival.Airport != "" {
		from, to = flights[0].Departure.Airport, flights[0].Arrival.Airport
	}
	fmt.Fprintf(&b, "🛫 **Route:** %s → %s\n\n", from, to)

	b.WriteString(bookingLine)
	return b.String()
}

// ComposeNoFlights renders the reply for a search that returned nothing.
func ComposeNoFlights(req models.SearchRequest) string {
	return fmt.Sprintf(`😔 No flights found from %s to %s on %s.

This could be because:
- The date might be too far in the future or past
- No airlines operate this route on that day
- All flights are sold out

💡 **Suggestions:**
- Try a different date (±1-2 days)
- Try nearby airports
- Check for connecting flights

Would you like me to search for a different date or route?`,
		req.Origin, req.Destination, dates.Human(req.ResolvedDate))
}

// ComposeFailure renders the user-facing text for a failed turn. Internal
// error detail never appears in it.
func ComposeFailure(code ErrorCode, req *models.SearchRequest) string {
	switch code {
	case CodeTimeout:
		return "⏳ The search timed out. Please try again in a moment."
	case CodeLookupFailed:
		route := "one of those places"
		if req != nil {
			route = fmt.Sprintf("%s or %s", req.Origin, req.Destination)
		}
		return fmt.Sprintf(`😕 I couldn't find %s.

This could be because:
- A city or airport name is misspelled
- The place has no airport served by our partners

Could you double-check the names or try a nearby major city?`, route)
	case CodeSearchFailed:
		return `😕 I couldn't complete that flight search.

This could be because:
- The date is invalid or too far in the future
- The route is sold out or not operated
- The flight service is temporarily unavailable

Would you like to try a different date or route?`
	default:
		return "Sorry, I had trouble understanding that just now. Please try again."
	}
}

func highlight(f models.Flight) string {
	return fmt.Sprintf("%s - %s (%s, %s)", f.Airline, currency.Format(f.Price, f.Currency), stopsLabel(f.Stops), f.Duration)
}

func stopsLabel(stops int) string {
	switch stops {
	case 0:
		return "direct"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}
