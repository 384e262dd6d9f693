package store

import (
	"context"
	"errors"
	"time"

	"github.com/dharmasatrya/jetset/internal/models"
)

// ErrNotFound is returned by Get for unknown or expired conversations.
var ErrNotFound = errors.New("conversation not found")

// DefaultTTL is how long an idle conversation is remembered.
const DefaultTTL = 24 * time.Hour

// Store keeps one ConversationContext per conversation id. Set stamps
// UpdatedAt; a conversation idle for longer than the TTL is gone.
type Store interface {
	Get(ctx context.Context, id string) (*models.ConversationContext, error)
	Set(ctx context.Context, conv *models.ConversationContext) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Purger is implemented by stores that need expired entries removed
// explicitly.
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

func clone(c *models.ConversationContext) *models.ConversationContext {
	if c == nil {
		return nil
	}
	out := *c
	if c.LastSearch != nil {
		ls := *c.LastSearch
		out.LastSearch = &ls
	}
	if c.AwaitingClarification != nil {
		ac := *c.AwaitingClarification
		out.AwaitingClarification = &ac
	}
	if c.History != nil {
		out.History = append([]models.Turn(nil), c.History...)
	}
	return &out
}
