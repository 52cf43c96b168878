package game

import (
	"sync"
	"time"

	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/tdf"
)

// MaxPlayers is the fixed slot count spec.md §3 mandates per game.
const MaxPlayers = 4

// Sender delivers a notification packet to one session without the game
// package needing to know anything about transport or the session index.
type Sender interface {
	SendTo(sessionID uint64, pkt *tdf.Packet)
}

// Player is an admitted game participant: the owning session plus the
// player/network data captured at admission time (spec.md §3 GamePlayer).
type Player struct {
	SessionID   uint64
	PlayerID    uint32
	DisplayName string
	Net         blaze.NetData
	JoinedAt    time.Time
}

// Game is one live match: slots, attributes, and state, all guarded by mu
// so every mutation is serialized per spec.md §5's per-game write lock.
type Game struct {
	ID        uint32
	CreatedAt time.Time
	Settings  uint16

	mu     sync.Mutex
	state  State
	slots  [MaxPlayers]*Player
	attrs  *Attrs
	sender Sender
}

func newGame(id uint32, settings uint16, attrs map[string]string, sender Sender) *Game {
	g := &Game{
		ID:        id,
		CreatedAt: time.Now(),
		Settings:  settings,
		attrs:     NewAttrs(),
		sender:    sender,
	}
	g.attrs.Merge(attrs)
	return g
}

func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// hostSlot returns the lowest occupied slot index, or -1 if the game is
// empty.
func (g *Game) hostSlot() int {
	for i, p := range g.slots {
		if p != nil {
			return i
		}
	}
	return -1
}

// PlayerCount returns the number of currently occupied slots.
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, p := range g.slots {
		if p != nil {
			n++
		}
	}
	return n
}

// AddPlayer admits a player into the first free slot. Returns the assigned
// slot index, or blaze.ErrGameFull if no slot is free.
func (g *Game) AddPlayer(p *Player) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot := -1
	for i, s := range g.slots {
		if s == nil {
			slot = i
			break
		}
	}
	if slot == -1 {
		return -1, blaze.ErrGameFull
	}
	g.slots[slot] = p

	for i, existing := range g.slots {
		if existing == nil || i == slot {
			continue
		}
		g.sender.SendTo(existing.SessionID, notifyPacket(blaze.ComponentGameManager, blaze.NotifyPlayerJoining, playerJoiningFields(g.ID, slot, p)))
	}
	g.sender.SendTo(p.SessionID, notifyPacket(blaze.ComponentGameManager, blaze.NotifyGameSetup, gameSetupFields(g)))

	return slot, nil
}

// RemovePlayer evicts the occupant of a slot (looked up by session ID),
// broadcasts removal, and migrates the host if necessary. It returns
// whether the game is now empty (caller should dispose it via the
// manager).
func (g *Game) RemovePlayer(sessionID uint64) (empty bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var removedSlot = -1
	for i, p := range g.slots {
		if p != nil && p.SessionID == sessionID {
			removedSlot = i
			break
		}
	}
	if removedSlot == -1 {
		return g.hostSlot() == -1
	}

	wasHost := removedSlot == g.hostSlot()
	g.slots[removedSlot] = nil

	for _, p := range g.slots {
		if p != nil {
			g.sender.SendTo(p.SessionID, notifyPacket(blaze.ComponentGameManager, blaze.NotifyPlayerRemoved, playerRemovedFields(g.ID, removedSlot)))
		}
	}

	newHost := g.hostSlot()
	if wasHost && newHost != -1 {
		g.state = StateHosting
		for _, p := range g.slots {
			if p != nil {
				g.sender.SendTo(p.SessionID, notifyPacket(blaze.ComponentGameManager, blaze.NotifyHostMigrationStart, hostMigrationFields(g.ID, newHost)))
			}
		}
		for _, p := range g.slots {
			if p != nil {
				g.sender.SendTo(p.SessionID, notifyPacket(blaze.ComponentGameManager, blaze.NotifyHostMigrationFinish, hostMigrationFields(g.ID, newHost)))
			}
		}
	}
	return newHost == -1
}

// SetAttributes merges updates into the attribute map and broadcasts the
// delta. Returns the delta that was actually applied.
func (g *Game) SetAttributes(updates map[string]string) map[string]string {
	g.mu.Lock()
	defer g.mu.Unlock()

	delta := g.attrs.Merge(updates)
	if len(delta) == 0 {
		return delta
	}
	for _, p := range g.slots {
		if p != nil {
			g.sender.SendTo(p.SessionID, notifyPacket(blaze.ComponentGameManager, blaze.NotifyGameAttribChange, attribChangeFields(g.ID, delta)))
		}
	}
	return delta
}

// SetState transitions the game's state, broadcasting the change. It
// returns false (no-op) if the transition is not permitted.
func (g *Game) SetState(to State) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !CanTransition(g.state, to) {
		return false
	}
	g.state = to
	g.attrs.Set("ME3gameState", stateAttrValue(to))
	for _, p := range g.slots {
		if p != nil {
			g.sender.SendTo(p.SessionID, notifyPacket(blaze.ComponentGameManager, blaze.NotifyGameStateChange, stateChangeFields(g.ID, to)))
		}
	}
	return true
}

func stateAttrValue(s State) string {
	switch s {
	case StateInit:
		return "GAME_STATE_INIT"
	case StateInGame:
		return "IN_GAME"
	case StateReturning:
		return "GAME_STATE_POST_GAME"
	default:
		return s.String()
	}
}

// Snapshot is an immutable view of a game for admin APIs and matchmaking
// rule evaluation (spec.md §4.4).
type Snapshot struct {
	ID        uint32
	State     State
	CreatedAt time.Time
	Attrs     map[string]string
	Players   []SnapshotPlayer
	HostSlot  int
}

type SnapshotPlayer struct {
	Slot        int
	PlayerID    uint32
	DisplayName string
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	attrs := make(map[string]string, len(g.attrs.order))
	for _, kv := range g.attrs.All() {
		attrs[kv.Key] = kv.Value
	}
	var players []SnapshotPlayer
	for i, p := range g.slots {
		if p != nil {
			players = append(players, SnapshotPlayer{Slot: i, PlayerID: p.PlayerID, DisplayName: p.DisplayName})
		}
	}
	return Snapshot{
		ID:        g.ID,
		State:     g.state,
		CreatedAt: g.CreatedAt,
		Attrs:     attrs,
		Players:   players,
		HostSlot:  g.hostSlot(),
	}
}

// hasFreeSlot and attrValue are used by Manager.TryMatch without needing
// to take a full Snapshot copy for every candidate.
func (g *Game) hasFreeSlot() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.slots {
		if p == nil {
			return true
		}
	}
	return false
}

func (g *Game) attrValue(key string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attrs.Get(key)
}

func notifyPacket(component, command uint16, fields []tdf.Field) *tdf.Packet {
	return &tdf.Packet{
		Component: component,
		Command:   command,
		QType:     tdf.QTypeNotify,
		Seq:       0,
		Body:      tdf.EncodeBody(fields),
	}
}
