package game

import (
	"sync"
	"sync/atomic"
)

// Rule is one matchmaking constraint evaluated against a game's attribute
// map (spec.md §3 Rule / §4.5 TryMatch).
type Rule struct {
	Attr    string
	Allowed map[string]struct{}
	Ignored bool
}

// Satisfies reports whether the game's current value for Attr is in the
// rule's allowed set. An ignored rule always satisfies.
func (r Rule) Satisfies(g *Game) bool {
	if r.Ignored {
		return true
	}
	v, ok := g.attrValue(r.Attr)
	if !ok {
		return false
	}
	_, allowed := r.Allowed[v]
	return allowed
}

// AllowJoinInProgress resolves REDESIGN FLAG (b): whether matchmaking may
// place a ticket into a game already InGame. Made a runtime option rather
// than a compile-time constant, per the source's own inconsistency.
type Manager struct {
	mu              sync.Mutex
	games           map[uint32]*Game
	order           []uint32
	nextID          atomic.Uint32
	sender          Sender
	allowJoinInProg bool
}

func NewManager(sender Sender, allowJoinInProgress bool) *Manager {
	return &Manager{
		games:           make(map[uint32]*Game),
		sender:          sender,
		allowJoinInProg: allowJoinInProgress,
	}
}

// CreateGame registers a new game with the given settings/attributes and
// returns it.
func (m *Manager) CreateGame(settings uint16, attrs map[string]string) *Game {
	id := m.nextID.Add(1)
	g := newGame(id, settings, attrs, m.sender)

	m.mu.Lock()
	m.games[id] = g
	m.order = append(m.order, id)
	m.mu.Unlock()
	return g
}

func (m *Manager) GetGame(id uint32) (*Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	return g, ok
}

func (m *Manager) RemoveGame(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	for i, gid := range m.order {
		if gid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns a snapshot of every live game, in creation order.
func (m *Manager) Snapshot() []Snapshot {
	m.mu.Lock()
	ids := append([]uint32(nil), m.order...)
	games := make([]*Game, 0, len(ids))
	for _, id := range ids {
		games = append(games, m.games[id])
	}
	m.mu.Unlock()

	out := make([]Snapshot, 0, len(games))
	for _, g := range games {
		out = append(out, g.Snapshot())
	}
	return out
}

// TryMatch returns the oldest game (insertion order) with a free slot
// whose attributes satisfy every rule, per spec.md §4.5.
func (m *Manager) TryMatch(rules []Rule) (*Game, bool) {
	m.mu.Lock()
	ids := append([]uint32(nil), m.order...)
	games := make([]*Game, 0, len(ids))
	for _, id := range ids {
		games = append(games, m.games[id])
	}
	m.mu.Unlock()

	for _, g := range games {
		st := g.State()
		if st != StateInit && !(st == StateInGame && m.allowJoinInProg) {
			continue
		}
		if !g.hasFreeSlot() {
			continue
		}
		ok := true
		for _, r := range rules {
			if !r.Satisfies(g) {
				ok = false
				break
			}
		}
		if ok {
			return g, true
		}
	}
	return nil, false
}
