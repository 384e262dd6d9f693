package extractor

import (
	"log/slog"

	"github.com/tiktoken-go/tokenizer"

	"github.com/dharmasatrya/jetset/internal/models"
)

// perTurnOverhead approximates the role label and separators of one turn.
const perTurnOverhead = 4

// HistoryWindow bounds how much conversation history reaches the oracle,
// first by turn count and then by a token budget.
type HistoryWindow struct {
	maxTurns  int
	maxTokens int
	codec     tokenizer.Codec
}

// NewHistoryWindow returns a window keeping at most maxTurns turns and
// maxTokens tokens. Non-positive limits disable that bound.
func NewHistoryWindow(maxTurns, maxTokens int) *HistoryWindow {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		slog.Default().Warn("tokenizer unavailable, estimating history tokens",
			slog.String("component", "extractor"),
			slog.String("error", err.Error()),
		)
		codec = nil
	}
	return &HistoryWindow{maxTurns: maxTurns, maxTokens: maxTokens, codec: codec}
}

// Trim returns the most recent turns that fit the window, oldest first.
func (w *HistoryWindow) Trim(turns []models.Turn) []models.Turn {
	if w == nil {
		return turns
	}
	if w.maxTurns > 0 && len(turns) > w.maxTurns {
		turns = turns[len(turns)-w.maxTurns:]
	}
	if w.maxTokens <= 0 {
		return turns
	}

	used := 0
	start := len(turns)
	for i := len(turns) - 1; i >= 0; i-- {
		cost := w.Count(turns[i].Content) + perTurnOverhead
		if used+cost > w.maxTokens {
			break
		}
		used += cost
		start = i
	}
	return turns[start:]
}

// Count returns the cl100k token count of text, or a four-characters-per-token
// estimate when the codec could not be loaded.
func (w *HistoryWindow) Count(text string) int {
	if w.codec == nil {
		return (len(text) + 3) / 4
	}
	ids, _, err := w.codec.Encode(text)
	if err != nil {
		return (len(text) + 3) / 4
	}
	return len(ids)
}
