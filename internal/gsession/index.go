package gsession

import (
	"sync"

	"github.com/galaxyhost/server/internal/tdf"
)

// Index tracks authenticated sessions by player ID so that game, matchmaking
// and leaderboard notifications can be pushed to a specific connection
// without those packages depending on net.Conn directly.
type Index struct {
	mu      sync.RWMutex
	byID    map[uint64]*Session
	byPlayer map[uint32]*Session
}

func NewIndex() *Index {
	return &Index{
		byID:     make(map[uint64]*Session),
		byPlayer: make(map[uint32]*Session),
	}
}

// Add registers a newly-accepted (not yet authenticated) session.
func (idx *Index) Add(s *Session) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byID[s.ID] = s
}

// BindPlayer associates an authenticated player ID with its session,
// called once Authenticate/ResumeSession succeeds.
func (idx *Index) BindPlayer(playerID uint32, s *Session) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byPlayer[playerID] = s
}

// Remove drops a session from both maps, called on disconnect.
func (idx *Index) Remove(s *Session) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.byID, s.ID)
	if pid := s.PlayerID(); pid != 0 {
		if cur, ok := idx.byPlayer[pid]; ok && cur == s {
			delete(idx.byPlayer, pid)
		}
	}
}

func (idx *Index) BySession(id uint64) (*Session, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	s, ok := idx.byID[id]
	return s, ok
}

func (idx *Index) ByPlayer(playerID uint32) (*Session, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	s, ok := idx.byPlayer[playerID]
	return s, ok
}

// SendTo delivers a notification packet to a session by ID, satisfying
// game.Sender and matchmaking's equivalent without those packages needing
// to know about net.Conn or the reader/writer goroutines.
func (idx *Index) SendTo(sessionID uint64, pkt *tdf.Packet) {
	if s, ok := idx.BySession(sessionID); ok {
		s.Send(pkt)
	}
}

// Count returns the number of currently tracked connections.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byID)
}
