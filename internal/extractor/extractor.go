package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dharmasatrya/jetset/internal/models"
	"github.com/dharmasatrya/jetset/internal/oracle"
)

const (
	FieldOrigin      = "origin"
	FieldDestination = "destination"
	FieldDate        = "date"
)

// CodeStructureParseFallback tags oracle answers that carried no readable
// intent and were passed through as plain conversation.
const CodeStructureParseFallback = "structure_parse_fallback"

type Config struct {
	HistoryTurns  int
	HistoryTokens int
}

// Extractor classifies utterances into intents. It keeps no per-conversation
// state; everything it needs is passed to Extract.
type Extractor struct {
	oracle  oracle.Oracle
	parser  *Parser
	history *HistoryWindow
	logger  *slog.Logger
}

func New(o oracle.Oracle, cfg Config) *Extractor {
	return &Extractor{
		oracle:  o,
		parser:  NewParser(),
		history: NewHistoryWindow(cfg.HistoryTurns, cfg.HistoryTokens),
		logger:  slog.Default().With(slog.String("component", "extractor")),
	}
}

// Extract asks the oracle what the user wants. An error means the oracle
// itself failed; unreadable oracle output is returned as a fallback
// Conversation instead.
func (e *Extractor) Extract(ctx context.Context, utterance string, history []models.Turn, pending models.Pending) (Intent, error) {
	prompt := BuildPrompt(utterance, e.history.Trim(history), pending)

	text, err := e.oracle.Invoke(ctx, SystemInstructions, prompt)
	if err != nil {
		return nil, fmt.Errorf("extract intent: %w", err)
	}

	result, ok := e.parser.Parse(text)
	if !ok {
		e.logger.Warn("oracle output has no structured intent",
			slog.String("code", CodeStructureParseFallback),
			slog.Int("length", len(text)),
		)
		return Conversation{Reply: strings.TrimSpace(text), Fallback: true}, nil
	}

	e.logger.Debug("intent parsed",
		slog.String("type", result.Payload.Type),
		slog.String("strategy", string(result.Strategy)),
	)

	return Interpret(result.Payload, pending, text), nil
}

// Interpret turns a decoded payload into an Intent, filling gaps from the
// pending state and validating required search fields.
func Interpret(p Payload, pending models.Pending, raw string) Intent {
	switch Kind(p.Type) {
	case KindConversation:
		reply := strings.TrimSpace(p.Message)
		if reply == "" {
			return Conversation{Reply: strings.TrimSpace(raw), Fallback: true}
		}
		return Conversation{Reply: reply}

	case KindDateRangeClarification:
		d := DateRangeClarification{
			Origin:      strings.TrimSpace(p.Origin),
			Destination: strings.TrimSpace(p.Destination),
			RangeStart:  strings.TrimSpace(p.RangeStart),
			RangeEnd:    strings.TrimSpace(p.RangeEnd),
			Prompt:      strings.TrimSpace(p.Message),
		}
		if last := pending.LastSearch; last != nil {
			d.Origin = firstNonEmpty(d.Origin, last.Origin)
			d.Destination = firstNonEmpty(d.Destination, last.Destination)
		}
		if d.Prompt == "" {
			d.Prompt = clarificationPrompt(d)
		}
		return d

	default:
		req := models.SearchRequest{
			Origin:      strings.TrimSpace(p.Origin),
			Destination: strings.TrimSpace(p.Destination),
			Date:        strings.TrimSpace(p.Date),
			ReturnDate:  strings.TrimSpace(p.ReturnDate),
			Adults:      int(p.Adults),
			CabinClass:  models.CabinClass(strings.TrimSpace(p.CabinClass)),
		}
		CarryOver(&req, pending)

		if missing := MissingFields(req); len(missing) > 0 {
			return Incomplete{Missing: missing, Partial: req, Prompt: IncompletePrompt(missing)}
		}
		return FlightSearch{Request: req}
	}
}

// CarryOver fills empty fields of req from the pending clarification hints
// first and then from the last search. Cabin and passenger count default
// to the last search, then to economy and one adult.
func CarryOver(req *models.SearchRequest, pending models.Pending) {
	if c := pending.AwaitingClarification; c != nil {
		req.Origin = firstNonEmpty(req.Origin, c.OriginHint)
		req.Destination = firstNonEmpty(req.Destination, c.DestinationHint)
	}

	explicitCabin := req.CabinClass != ""
	if last := pending.LastSearch; last != nil {
		req.Origin = firstNonEmpty(req.Origin, last.Origin)
		req.Destination = firstNonEmpty(req.Destination, last.Destination)
		req.Date = firstNonEmpty(req.Date, last.Date)
		if req.Adults < 1 {
			req.Adults = last.Adults
		}
		if !explicitCabin {
			req.CabinClass = last.CabinClass
		}
	}

	if req.Adults < 1 {
		req.Adults = 1
	}
	req.CabinClass = models.ParseCabinClass(string(req.CabinClass))
}

// MissingFields lists the required search fields that are still empty.
func MissingFields(req models.SearchRequest) []string {
	var missing []string
	if req.Origin == "" {
		missing = append(missing, FieldOrigin)
	}
	if req.Destination == "" {
		missing = append(missing, FieldDestination)
	}
	if req.Date == "" {
		missing = append(missing, FieldDate)
	}
	return missing
}

var fieldQuestions = map[string]string{
	FieldOrigin:      "where you're flying from",
	FieldDestination: "where you'd like to go",
	FieldDate:        "when you'd like to travel",
}

// IncompletePrompt asks the user for the missing fields.
func IncompletePrompt(missing []string) string {
	parts := make([]string, 0, len(missing))
	for _, f := range missing {
		parts = append(parts, fieldQuestions[f])
	}

	var list string
	switch len(parts) {
	case 0:
		return "Could you tell me a bit more about your trip?"
	case 1:
		list = parts[0]
	case 2:
		list = parts[0] + " and " + parts[1]
	default:
		list = strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
	return fmt.Sprintf("I'd love to help you find a flight! ✈️ Please tell me %s.", list)
}

func clarificationPrompt(d DateRangeClarification) string {
	route := "your trip"
	if d.Origin != "" && d.Destination != "" {
		route = fmt.Sprintf("%s to %s", d.Origin, d.Destination)
	}
	if d.RangeStart != "" && d.RangeEnd != "" {
		return fmt.Sprintf("Which exact date between %s and %s would you like to fly for %s?", d.RangeStart, d.RangeEnd, route)
	}
	return fmt.Sprintf("Which exact date would you like to fly for %s?", route)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
