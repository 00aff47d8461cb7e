package server

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scrapyard/trashpoker/internal/economy"
	"github.com/scrapyard/trashpoker/internal/game"
	"github.com/scrapyard/trashpoker/internal/randutil"
)

var playerNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// GameService owns one session per authenticated player, each backed by its
// own save file under the data directory. Sessions are created lazily on
// first use and persist across reconnects until Release.
type GameService struct {
	mu       sync.Mutex
	dataDir  string
	catalog  *economy.Catalog
	cfg      game.Config
	seed     int64
	logger   *log.Logger
	sessions map[string]*playerSession
}

type playerSession struct {
	session *game.Session
	store   *economy.Store
	ledger  *economy.Ledger
}

// NewGameService creates a service persisting saves under dataDir. A zero
// seed means every session shuffles from the wall clock.
func NewGameService(dataDir string, catalog *economy.Catalog, cfg game.Config, seed int64, logger *log.Logger) (*GameService, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &GameService{
		dataDir:  dataDir,
		catalog:  catalog,
		cfg:      cfg,
		seed:     seed,
		logger:   logger.WithPrefix("service"),
		sessions: make(map[string]*playerSession),
	}, nil
}

// ValidPlayerName reports whether a name is acceptable. Names double as
// save-file names, so only a conservative character set is allowed.
func ValidPlayerName(name string) bool {
	return playerNameRe.MatchString(name)
}

// SessionFor returns the player's session, loading their save on first use.
func (gs *GameService) SessionFor(name string) (*game.Session, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if !ValidPlayerName(name) {
		return nil, fmt.Errorf("invalid player name: %q", name)
	}
	if ps, ok := gs.sessions[name]; ok {
		return ps.session, nil
	}

	store := economy.NewStore(filepath.Join(gs.dataDir, name+".json"), gs.logger)
	ledger := store.Load()

	seed := gs.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	session := game.NewSession(randutil.New(seed), ledger, gs.logger.With("player", name),
		game.WithConfig(gs.cfg),
		game.WithSaver(store),
		game.WithCatalog(gs.catalog),
	)

	gs.sessions[name] = &playerSession{session: session, store: store, ledger: ledger}
	gs.logger.Info("Session opened", "player", name, "balance", ledger.Balance)
	return session, nil
}

// LedgerFor returns the player's ledger, for read-only uses such as shop
// listings. The session must already exist.
func (gs *GameService) LedgerFor(name string) (*economy.Ledger, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	ps, ok := gs.sessions[name]
	if !ok {
		return nil, fmt.Errorf("no session for player: %q", name)
	}
	return ps.ledger, nil
}

// Catalog returns the shared shop catalog.
func (gs *GameService) Catalog() *economy.Catalog {
	return gs.catalog
}

// Release saves and drops the player's session, typically on disconnect.
func (gs *GameService) Release(name string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	ps, ok := gs.sessions[name]
	if !ok {
		return
	}
	delete(gs.sessions, name)
	if err := ps.store.Save(ps.ledger); err != nil {
		gs.logger.Error("Failed to save on release", "player", name, "error", err)
		return
	}
	gs.logger.Info("Session released", "player", name)
}

// Close saves every open session.
func (gs *GameService) Close() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	for name, ps := range gs.sessions {
		if err := ps.store.Save(ps.ledger); err != nil {
			gs.logger.Error("Failed to save on shutdown", "player", name, "error", err)
		}
	}
	gs.sessions = make(map[string]*playerSession)
}

// ActivePlayers returns the names with open sessions, for diagnostics.
func (gs *GameService) ActivePlayers() []string {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	names := make([]string, 0, len(gs.sessions))
	for name := range gs.sessions {
		names = append(names, name)
	}
	return names
}
