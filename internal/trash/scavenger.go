// Package trash implements the scavenging minigame offered to broke
// players. Pieces of trash spawn over time; picking one up pays a single
// garbage coin, with a small chance of a rare coin worth far more.
package trash

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Kind identifies what a spawned piece of trash looks like.
type Kind int

const (
	Bag Kind = iota
	Can
	Bottle
	Wrapper
	RareCoin
)

func (k Kind) String() string {
	switch k {
	case Bag:
		return "bag"
	case Can:
		return "can"
	case Bottle:
		return "bottle"
	case Wrapper:
		return "wrapper"
	case RareCoin:
		return "rare coin"
	default:
		return "unknown"
	}
}

const (
	// TrashValue is the payout for ordinary garbage.
	TrashValue = 1
	// RareCoinValue is the payout for a rare coin.
	RareCoinValue = 100

	rareChance = 0.02
	defaultTTL = 10 * time.Second
)

var (
	ErrNoSuchItem = errors.New("trash: no such item")
	ErrExpired    = errors.New("trash: item already rotted away")
)

// Item is a piece of trash waiting to be picked up.
type Item struct {
	ID      int
	Kind    Kind
	Spawned time.Time
}

// Value is the payout for collecting the item.
func (i Item) Value() int {
	if i.Kind == RareCoin {
		return RareCoinValue
	}
	return TrashValue
}

// Scavenger tracks spawned trash and the coins collected so far. It is
// safe for concurrent use.
type Scavenger struct {
	mu     sync.Mutex
	rng    *rand.Rand
	clock  quartz.Clock
	ttl    time.Duration
	nextID int
	items  map[int]Item
	earned int
	picked int
}

// Option configures a Scavenger.
type Option func(*Scavenger)

// WithClock substitutes the wall clock, for tests.
func WithClock(clock quartz.Clock) Option {
	return func(s *Scavenger) { s.clock = clock }
}

// WithTTL overrides how long trash lingers before rotting away.
func WithTTL(ttl time.Duration) Option {
	return func(s *Scavenger) { s.ttl = ttl }
}

// NewScavenger creates an empty scavenging field.
func NewScavenger(rng *rand.Rand, opts ...Option) *Scavenger {
	s := &Scavenger{
		rng:   rng,
		clock: quartz.NewReal(),
		ttl:   defaultTTL,
		items: make(map[int]Item),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn drops a new piece of trash and returns it. Roughly one spawn in
// fifty is a rare coin.
func (s *Scavenger) Spawn() Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := Kind(s.rng.IntN(4))
	if s.rng.Float64() < rareChance {
		kind = RareCoin
	}
	s.nextID++
	item := Item{ID: s.nextID, Kind: kind, Spawned: s.clock.Now()}
	s.items[item.ID] = item
	return item
}

// Collect picks up the item with the given id and returns its payout.
// Expired items are swept and pay nothing.
func (s *Scavenger) Collect(id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return 0, ErrNoSuchItem
	}
	delete(s.items, id)
	if s.clock.Now().Sub(item.Spawned) > s.ttl {
		return 0, ErrExpired
	}
	value := item.Value()
	s.earned += value
	s.picked++
	return value, nil
}

// Sweep removes expired items and returns how many rotted away.
func (s *Scavenger) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	swept := 0
	for id, item := range s.items {
		if now.Sub(item.Spawned) > s.ttl {
			delete(s.items, id)
			swept++
		}
	}
	return swept
}

// Items returns the live trash, unsorted.
func (s *Scavenger) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out
}

// Earned reports the total coins collected this scavenging run.
func (s *Scavenger) Earned() int { return s.total() }

// Picked reports how many items were collected.
func (s *Scavenger) Picked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picked
}

func (s *Scavenger) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.earned
}
