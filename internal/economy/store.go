package economy

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/scrapyard/trashpoker/internal/fileutil"
)

// Store persists the ledger as a single JSON document. Loading degrades
// gracefully: missing or corrupt data yields first-run defaults, and saves
// are best-effort (callers log and carry on).
type Store struct {
	path   string
	clock  quartz.Clock
	logger *log.Logger
}

// StoreOption customises a store.
type StoreOption func(*Store)

// WithClock substitutes the clock used for the lastSaved timestamp.
func WithClock(clock quartz.Clock) StoreOption {
	return func(s *Store) { s.clock = clock }
}

// NewStore creates a store that persists to path.
func NewStore(path string, logger *log.Logger, opts ...StoreOption) *Store {
	s := &Store{
		path:   path,
		clock:  quartz.NewReal(),
		logger: logger.WithPrefix("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// persistedState is the on-disk document. Pointer fields distinguish a
// missing field from a present zero so partial and legacy saves load
// cleanly.
type persistedState struct {
	Balance   *int               `json:"balance"`
	Jackpot   *int               `json:"jackpot"`
	Powerups  *persistedPowerups `json:"powerups"`
	LastSaved string             `json:"lastSaved,omitempty"`
}

// persistedPowerups carries the current powerup fields plus the legacy
// fields older saves used, so they can be migrated on load.
type persistedPowerups struct {
	Powerups
	// LegacyWildcard was a per-round wildcard charge count; five charges
	// collapse into one permanent deck wild card.
	LegacyWildcard *float64 `json:"wildcard,omitempty"`
	// LegacyPassive was a boolean; owning it meant a flat 5gc per round.
	LegacyPassive *bool `json:"passive,omitempty"`
}

// Load reads the ledger from disk. A missing or unreadable file returns
// first-run defaults; individual missing fields default to zero values.
func (s *Store) Load() *Ledger {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Could not read saved state, starting fresh", "error", err)
		}
		return NewLedger()
	}

	var saved persistedState
	if err := json.Unmarshal(data, &saved); err != nil {
		s.logger.Warn("Saved state is corrupt, starting fresh", "error", err)
		return NewLedger()
	}

	ledger := NewLedger()
	if saved.Balance != nil {
		ledger.Balance = *saved.Balance
	}
	if saved.Jackpot != nil {
		ledger.Jackpot = *saved.Jackpot
	}
	if saved.Powerups != nil {
		ledger.Powerups = saved.Powerups.Powerups
		migrateLegacy(saved.Powerups, &ledger.Powerups)
	}

	if saved.LastSaved != "" {
		if last, err := time.Parse(time.RFC3339, saved.LastSaved); err == nil {
			if hours := int(s.clock.Since(last).Hours()); hours > 0 {
				s.logger.Info("Welcome back", "hours_since_last_save", hours)
			}
		}
	}
	return ledger
}

// migrateLegacy applies the old-format conversions: numeric wildcard charges
// become ceil(n/5) permanent deck wilds, and the passive boolean becomes a
// flat 5gc income.
func migrateLegacy(saved *persistedPowerups, p *Powerups) {
	if saved.LegacyWildcard != nil {
		p.WildcardsInDeck = int(math.Ceil(*saved.LegacyWildcard / 5))
	}
	if saved.LegacyPassive != nil && *saved.LegacyPassive && p.PassiveIncome == 0 {
		p.PassiveIncome = 5
	}
}

// Save writes the ledger to disk atomically.
func (s *Store) Save(l *Ledger) error {
	state := persistedState{
		Balance:   &l.Balance,
		Jackpot:   &l.Jackpot,
		Powerups:  &persistedPowerups{Powerups: l.Powerups},
		LastSaved: s.clock.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(s.path, data, 0o644)
}
