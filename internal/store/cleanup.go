package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultCleanupInterval = 10 * time.Minute

// CleanupService periodically purges expired conversations.
type CleanupService struct {
	purger   Purger
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

func NewCleanupService(purger Purger, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CleanupService{purger: purger, interval: interval}
}

func (c *CleanupService) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	cleanupCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.run(cleanupCtx)
}

// Stop cancels the loop and waits for it to exit.
func (c *CleanupService) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	<-done
}

func (c *CleanupService) run(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		c.running = false
		close(c.done)
		c.mu.Unlock()
	}()

	logger := slog.Default().With(slog.String("component", "store.cleanup"))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.purge(ctx, logger)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.purge(ctx, logger)
		}
	}
}

func (c *CleanupService) purge(ctx context.Context, logger *slog.Logger) {
	removed, err := c.purger.PurgeExpired(ctx)
	if err != nil {
		logger.WarnContext(ctx, "purge expired conversations failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		logger.InfoContext(ctx, "purged expired conversations", slog.Int("removed", removed))
	}
}
