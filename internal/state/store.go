package state

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"tickerdeck/backend-go/internal/models"
)

const (
	stateBucket  = "client_state"
	stateKey     = "state"
	stateVersion = 1

	defaultMaxRecent = 10
)

// persistedState is the durable subset of the client state, stored as one
// JSON blob. Version mismatches reset to defaults rather than migrating.
type persistedState struct {
	Version           int                    `json:"version"`
	Watchlist         []models.WatchlistItem `json:"watchlist"`
	RecentSearches    []string               `json:"recentSearches"`
	SelectedTimeRange models.TimeRange       `json:"selectedTimeRange"`
	SelectedChartType models.ChartType       `json:"selectedChartType"`
	IsDarkMode        bool                   `json:"isDarkMode"`
}

// Store owns the client state: watchlist, recent searches, and chart
// preferences. All mutation goes through its methods; every mutation is
// persisted and published to subscribers.
type Store struct {
	mu        sync.Mutex
	db        *bolt.DB
	state     models.ClientState
	maxRecent int
	subs      map[chan models.ClientState]struct{}
	now       func() time.Time
}

func defaultState() models.ClientState {
	return models.ClientState{
		Watchlist:         []models.WatchlistItem{},
		RecentSearches:    []string{},
		SelectedTimeRange: models.Range1D,
		SelectedChartType: models.ChartLine,
		IsDarkMode:        false,
	}
}

// Open loads the store from the bbolt file at path, falling back to defaults
// when the blob is absent, corrupt, or from an unknown version. An empty path
// keeps the store in memory only.
func Open(path string, maxRecent int) (*Store, error) {
	if maxRecent <= 0 {
		maxRecent = defaultMaxRecent
	}
	s := &Store{
		state:     defaultState(),
		maxRecent: maxRecent,
		subs:      make(map[chan models.ClientState]struct{}),
		now:       time.Now,
	}
	if path == "" {
		return s, nil
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	s.db = db

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		if err != nil {
			return err
		}
		raw := b.Get([]byte(stateKey))
		if raw == nil {
			return nil
		}
		var p persistedState
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil
		}
		if p.Version != stateVersion {
			return nil
		}
		s.state = rehydrate(p)
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// rehydrate normalizes a loaded blob back onto the documented defaults.
func rehydrate(p persistedState) models.ClientState {
	st := defaultState()
	if p.Watchlist != nil {
		st.Watchlist = p.Watchlist
	}
	if p.RecentSearches != nil {
		st.RecentSearches = p.RecentSearches
	}
	if p.SelectedTimeRange.Valid() {
		st.SelectedTimeRange = p.SelectedTimeRange
	}
	if p.SelectedChartType.Valid() {
		st.SelectedChartType = p.SelectedChartType
	}
	st.IsDarkMode = p.IsDarkMode
	return st
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() models.ClientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

func cloneState(st models.ClientState) models.ClientState {
	out := st
	out.Watchlist = make([]models.WatchlistItem, len(st.Watchlist))
	copy(out.Watchlist, st.Watchlist)
	out.RecentSearches = make([]string, len(st.RecentSearches))
	copy(out.RecentSearches, st.RecentSearches)
	return out
}

// mutate runs fn under the lock, persists the result, and publishes the new
// snapshot when fn reports a change.
func (s *Store) mutate(fn func(st *models.ClientState) bool) bool {
	s.mu.Lock()
	changed := fn(&s.state)
	var snap models.ClientState
	if changed {
		s.persistLocked()
		snap = cloneState(s.state)
	}
	s.mu.Unlock()

	if changed {
		s.publish(snap)
	}
	return changed
}

func (s *Store) persistLocked() {
	if s.db == nil {
		return
	}
	p := persistedState{
		Version:           stateVersion,
		Watchlist:         s.state.Watchlist,
		RecentSearches:    s.state.RecentSearches,
		SelectedTimeRange: s.state.SelectedTimeRange,
		SelectedChartType: s.state.SelectedChartType,
		IsDarkMode:        s.state.IsDarkMode,
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(stateKey), raw)
	})
}

// AddToWatchlist appends the item, preserving insertion order. Adding a
// symbol that is already present is a no-op.
func (s *Store) AddToWatchlist(item models.WatchlistItem) bool {
	item.Symbol = strings.ToUpper(strings.TrimSpace(item.Symbol))
	if item.Symbol == "" {
		return false
	}
	return s.mutate(func(st *models.ClientState) bool {
		for _, it := range st.Watchlist {
			if it.Symbol == item.Symbol {
				return false
			}
		}
		if item.AddedAt == "" {
			item.AddedAt = s.now().UTC().Format(time.RFC3339)
		}
		st.Watchlist = append(st.Watchlist, item)
		return true
	})
}

func (s *Store) RemoveFromWatchlist(symbol string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	return s.mutate(func(st *models.ClientState) bool {
		for i, it := range st.Watchlist {
			if it.Symbol == symbol {
				st.Watchlist = append(st.Watchlist[:i], st.Watchlist[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *Store) ClearWatchlist() {
	s.mutate(func(st *models.ClientState) bool {
		st.Watchlist = []models.WatchlistItem{}
		return true
	})
}

// ReplaceWatchlistSnapshot swaps the entry for symbol with a copy carrying a
// fresh price snapshot. Entries are never mutated in place.
func (s *Store) ReplaceWatchlistSnapshot(symbol string, price, change, changePct float64) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	return s.mutate(func(st *models.ClientState) bool {
		for i, it := range st.Watchlist {
			if it.Symbol == symbol {
				next := it
				next.Price = &price
				next.Change = &change
				next.ChangePercent = &changePct
				st.Watchlist[i] = next
				return true
			}
		}
		return false
	})
}

// AddRecentSearch moves the symbol to the front, deduplicating, and truncates
// the history to the configured bound.
func (s *Store) AddRecentSearch(symbol string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return
	}
	s.mutate(func(st *models.ClientState) bool {
		recent := make([]string, 0, len(st.RecentSearches)+1)
		recent = append(recent, symbol)
		for _, r := range st.RecentSearches {
			if r != symbol {
				recent = append(recent, r)
			}
		}
		if len(recent) > s.maxRecent {
			recent = recent[:s.maxRecent]
		}
		st.RecentSearches = recent
		return true
	})
}

func (s *Store) ClearRecentSearches() {
	s.mutate(func(st *models.ClientState) bool {
		st.RecentSearches = []string{}
		return true
	})
}

// SetTimeRange replaces the preference; values outside the enum are ignored.
func (s *Store) SetTimeRange(r models.TimeRange) bool {
	if !r.Valid() {
		return false
	}
	return s.mutate(func(st *models.ClientState) bool {
		st.SelectedTimeRange = r
		return true
	})
}

func (s *Store) SetChartType(t models.ChartType) bool {
	if !t.Valid() {
		return false
	}
	return s.mutate(func(st *models.ClientState) bool {
		st.SelectedChartType = t
		return true
	})
}

// ToggleDarkMode flips the flag and returns the new value.
func (s *Store) ToggleDarkMode() bool {
	var next bool
	s.mutate(func(st *models.ClientState) bool {
		st.IsDarkMode = !st.IsDarkMode
		next = st.IsDarkMode
		return true
	})
	return next
}

// Subscribe delivers a snapshot after every mutation until ctx is done or the
// returned cancel function runs. Slow subscribers drop intermediate states.
func (s *Store) Subscribe(ctx context.Context) (<-chan models.ClientState, func()) {
	ch := make(chan models.ClientState, 1)
	var once sync.Once

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	snap := cloneState(s.state)
	s.mu.Unlock()

	ch <- snap

	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		unsubscribe()
	}()

	return ch, unsubscribe
}

func (s *Store) publish(snap models.ClientState) {
	s.mu.Lock()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	s.mu.Unlock()
}
