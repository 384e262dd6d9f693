package extractor

import "github.com/dharmasatrya/jetset/internal/models"

type Kind string

const (
	KindFlightSearch           Kind = "flight_search"
	KindDateRangeClarification Kind = "date_range_clarification"
	KindConversation           Kind = "conversation"
	KindIncomplete             Kind = "incomplete"
)

// Intent is the classified meaning of one user utterance. The concrete
// types below are the only implementations.
type Intent interface {
	Kind() Kind
	isIntent()
}

// FlightSearch carries a request with origin, destination and date set.
// ResolvedDate is left for the caller to fill.
type FlightSearch struct {
	Request models.SearchRequest
}

// DateRangeClarification asks the user to pick one date within a range.
type DateRangeClarification struct {
	Origin      string
	Destination string
	RangeStart  string
	RangeEnd    string
	Prompt      string
}

// Conversation is a plain reply. Fallback is set when the oracle output
// could not be read as structured data and Reply is its verbatim text.
type Conversation struct {
	Reply    string
	Fallback bool
}

// Incomplete is a flight search missing required fields.
type Incomplete struct {
	Missing []string
	Partial models.SearchRequest
	Prompt  string
}

func (FlightSearch) Kind() Kind           { return KindFlightSearch }
func (DateRangeClarification) Kind() Kind { return KindDateRangeClarification }
func (Conversation) Kind() Kind           { return KindConversation }
func (Incomplete) Kind() Kind             { return KindIncomplete }

func (FlightSearch) isIntent()           {}
func (DateRangeClarification) isIntent() {}
func (Conversation) isIntent()           {}
func (Incomplete) isIntent()             {}

// Clarification converts the intent into the state remembered for the
// next turn.
func (d DateRangeClarification) Clarification() *models.Clarification {
	return &models.Clarification{
		OriginHint:      d.Origin,
		DestinationHint: d.Destination,
		RangeStart:      d.RangeStart,
		RangeEnd:        d.RangeEnd,
	}
}
