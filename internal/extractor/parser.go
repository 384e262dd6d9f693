package extractor

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Strategy names the cascade step that recovered a payload.
type Strategy string

const (
	StrategyFenced  Strategy = "fenced"
	StrategyTypeKey Strategy = "type_key"
	StrategyBraces  Strategy = "braces"
)

var (
	fencedPattern  = regexp.MustCompile("(?s)```[A-Za-z]*\\s*(\\{.*?\\})\\s*```")
	typeKeyPattern = regexp.MustCompile(`\{[^{}]*"type"\s*:\s*"[^"]*"[^{}]*\}`)
)

// Payload is the JSON object the oracle is asked to produce.
type Payload struct {
	Type        string  `json:"type"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Date        string  `json:"date"`
	ReturnDate  string  `json:"return_date"`
	Adults      flexInt `json:"adults"`
	CabinClass  string  `json:"cabin_class"`
	RangeStart  string  `json:"range_start"`
	RangeEnd    string  `json:"range_end"`
	Message     string  `json:"message"`
}

type ParseResult struct {
	Payload  Payload
	Strategy Strategy
}

// Parser pulls a typed payload out of free oracle text.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse tries, in order, fenced code blocks, flat objects carrying a
// "type" key, and the span from the first '{' to the last '}' with control
// characters removed. The first candidate that decodes with a known type
// wins. ok is false when nothing qualifies.
func (p *Parser) Parse(text string) (ParseResult, bool) {
	for _, m := range fencedPattern.FindAllStringSubmatch(text, -1) {
		if payload, ok := decodePayload(m[1]); ok {
			return ParseResult{Payload: payload, Strategy: StrategyFenced}, true
		}
	}

	for _, candidate := range typeKeyPattern.FindAllString(text, -1) {
		if payload, ok := decodePayload(candidate); ok {
			return ParseResult{Payload: payload, Strategy: StrategyTypeKey}, true
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if payload, ok := decodePayload(stripControl(text[start : end+1])); ok {
			return ParseResult{Payload: payload, Strategy: StrategyBraces}, true
		}
	}

	return ParseResult{}, false
}

func decodePayload(candidate string) (Payload, bool) {
	var payload Payload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return Payload{}, false
	}

	payload.Type = strings.ToLower(strings.TrimSpace(payload.Type))
	switch Kind(payload.Type) {
	case KindFlightSearch, KindDateRangeClarification, KindConversation:
		return payload, true
	default:
		return Payload{}, false
	}
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// flexInt accepts 2, 2.0, "2" and null. Non-numeric strings read as 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
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
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			f = 0
		}
		*n = flexInt(f)
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = flexInt(f)
	return nil
}
