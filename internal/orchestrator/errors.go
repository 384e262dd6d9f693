package orchestrator

import (
	"context"
	"errors"

	"github.com/dharmasatrya/jetset/internal/extractor"
	"github.com/dharmasatrya/jetset/internal/gateway"
	"github.com/dharmasatrya/jetset/internal/normalizer"
)

// ErrorCode is the machine-readable outcome attached to failed turns and
// to log records.
type ErrorCode string

const (
	CodeExtractionFailed       ErrorCode = "extraction_failed"
	CodeLookupFailed           ErrorCode = "lookup_failed"
	CodeSearchFailed           ErrorCode = "search_failed"
	CodeTimeout                ErrorCode = "timeout"

	// Log-only codes; replies never carry them.
	CodeStructureParseFallback ErrorCode = extractor.CodeStructureParseFallback
	CodeMalformedOffer         ErrorCode = normalizer.CodeMalformedOffer
)

// Classify maps a pipeline error onto its code. Deadlines win over the
// component that hit them.
func Classify(err error) ErrorCode {
	var lookupErr *gateway.LookupError
	var searchErr *gateway.SearchError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.As(err, &lookupErr):
		return CodeLookupFailed
	case errors.As(err, &searchErr):
		return CodeSearchFailed
	default:
		return CodeExtractionFailed
	}
}
