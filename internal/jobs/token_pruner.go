// Package jobs holds the background jobs the server schedules.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ExpiredTokenStore removes access tokens past their expiry.
type ExpiredTokenStore interface {
	DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error)
}

// TokenPruner periodically deletes expired access tokens.
type TokenPruner struct {
	Store   ExpiredTokenStore
	Timeout time.Duration
	Now     func() time.Time
}

func NewTokenPruner(store ExpiredTokenStore) *TokenPruner {
	return &TokenPruner{Store: store, Timeout: time.Minute, Now: time.Now}
}

// Run prunes once and returns how many tokens were removed.
func (p *TokenPruner) Run(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	n, err := p.Store.DeleteExpiredAccessTokens(ctx, p.Now())
	if err != nil {
		return 0, fmt.Errorf("prune access tokens: %w", err)
	}
	return n, nil
}

// Schedule registers the pruner on c under spec.
func (p *TokenPruner) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		n, err := p.Run(context.Background())
		if err != nil {
			log.Printf("[TOKEN-PRUNER] %v", err)
			return
		}
		log.Printf("[TOKEN-PRUNER] Removed %d expired access token(s)", n)
	})
}
