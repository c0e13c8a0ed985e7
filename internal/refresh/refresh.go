package refresh

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"tickerdeck/backend-go/internal/services"
	"tickerdeck/backend-go/internal/state"
)

// Refresher periodically refreshes the price snapshot of every watchlist
// entry so the list stays current between page loads.
type Refresher struct {
	cron     *cron.Cron
	store    *state.Store
	provider *services.ProviderClient
	timeout  time.Duration
}

// New returns nil when interval is non-positive; callers treat a nil
// refresher as disabled.
func New(store *state.Store, provider *services.ProviderClient, interval, timeout time.Duration) *Refresher {
	if interval <= 0 {
		return nil
	}
	r := &Refresher{
		cron:     cron.New(),
		store:    store,
		provider: provider,
		timeout:  timeout,
	}
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", interval), r.run); err != nil {
		log.Printf("refresh: schedule: %v", err)
		return nil
	}
	return r
}

func (r *Refresher) Start() {
	if r == nil {
		return
	}
	r.cron.Start()
}

func (r *Refresher) Stop() {
	if r == nil {
		return
	}
	r.cron.Stop()
}

func (r *Refresher) run() {
	snap := r.store.Snapshot()
	if len(snap.Watchlist) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	for _, it := range snap.Watchlist {
		res := r.provider.GetStockQuote(ctx, it.Symbol)
		if !res.Success {
			continue
		}
		q := res.Data
		r.store.ReplaceWatchlistSnapshot(q.Symbol, q.Price, q.Change, q.ChangePercent)
	}
}
