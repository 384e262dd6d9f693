package gateway

import "fmt"

// LookupError means a place name could not be turned into a location id.
type LookupError struct {
	Query  string
	Reason string
	Err    error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookup %q: %s: %v", e.Query, e.Reason, e.Err)
	}
	return fmt.Sprintf("lookup %q: %s", e.Query, e.Reason)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// SearchError means the flight search call failed or returned an
// unusable payload.
type SearchError struct {
	Reason string
	Err    error
}

func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flight search: %s: %v", e.Reason, e.Err)
	}
	return "flight search: " + e.Reason
}

func (e *SearchError) Unwrap() error {
	return e.Err
}
