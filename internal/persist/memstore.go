package persist

import (
	"context"
	"sync"
	"time"
)

// MemStore is an in-memory Store, used by tests and by a standalone/dev
// server run with no database configured (spec.md §4.9 allows a mock or
// in-memory implementation).
type MemStore struct {
	mu         sync.Mutex
	nextID     uint32
	players    map[uint32]*Player
	byEmail    map[string]uint32
	data       map[uint32]map[string]string
	gaw        map[uint32]*GalaxyAtWar
	leaderboard map[LeaderboardKind]map[uint32]uint32
	classes    map[uint32][]PlayerClass
	dailyDecay float64
}

func NewMemStore(dailyDecay float64) *MemStore {
	return &MemStore{
		players:     make(map[uint32]*Player),
		byEmail:     make(map[string]uint32),
		data:        make(map[uint32]map[string]string),
		gaw:         make(map[uint32]*GalaxyAtWar),
		leaderboard: make(map[LeaderboardKind]map[uint32]uint32),
		classes:     make(map[uint32][]PlayerClass),
		dailyDecay:  dailyDecay,
	}
}

func (s *MemStore) PlayerByID(_ context.Context, id uint32) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemStore) PlayerByEmail(_ context.Context, email string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.players[id]
	return &cp, nil
}

func (s *MemStore) CreatePlayer(_ context.Context, email, displayName string, passwordHash *string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p := &Player{ID: s.nextID, Email: email, DisplayName: displayName, Password: passwordHash}
	s.players[p.ID] = p
	s.byEmail[email] = p.ID
	cp := *p
	return &cp, nil
}

func (s *MemStore) SetPlayerPassword(_ context.Context, id uint32, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return ErrNotFound
	}
	p.Password = &hash
	return nil
}

func (s *MemStore) SetDisplayName(_ context.Context, id uint32, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return ErrNotFound
	}
	p.DisplayName = name
	return nil
}

func (s *MemStore) SetEmail(_ context.Context, id uint32, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byEmail, p.Email)
	p.Email = email
	s.byEmail[email] = id
	return nil
}

func (s *MemStore) SetRole(_ context.Context, id uint32, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return ErrNotFound
	}
	p.Role = role
	return nil
}

func (s *MemStore) SetLastLoginAt(_ context.Context, id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	p.LastLoginAt = &now
	return nil
}

func (s *MemStore) PlayerDataGet(_ context.Context, playerID uint32, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.data[playerID]
	if !ok {
		return "", false, nil
	}
	v, ok := m[key]
	return v, ok, nil
}

func (s *MemStore) PlayerDataSet(_ context.Context, playerID uint32, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.data[playerID]
	if !ok {
		m = make(map[string]string)
		s.data[playerID] = m
	}
	m[key] = value
	return nil
}

func (s *MemStore) PlayerDataAll(_ context.Context, playerID uint32) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string)
	for k, v := range s.data[playerID] {
		out[k] = v
	}
	return out, nil
}

func (s *MemStore) GAWGetOrCreate(_ context.Context, playerID uint32) (*GalaxyAtWar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gawGetOrCreateLocked(playerID)
}

func (s *MemStore) gawGetOrCreateLocked(playerID uint32) (*GalaxyAtWar, error) {
	g, ok := s.gaw[playerID]
	if !ok {
		g = &GalaxyAtWar{
			PlayerID: playerID, LastModified: time.Now(),
			GroupA: galaxyAtWarMinGroup, GroupB: galaxyAtWarMinGroup, GroupC: galaxyAtWarMinGroup,
			GroupD: galaxyAtWarMinGroup, GroupE: galaxyAtWarMinGroup,
		}
		s.gaw[playerID] = g
	}
	applyMemDecay(g, s.dailyDecay)
	cp := *g
	return &cp, nil
}

// applyMemDecay mirrors gawRepo.decay/applyDecay for the in-memory store.
func applyMemDecay(g *GalaxyAtWar, dailyDecay float64) {
	days := time.Since(g.LastModified).Hours() / 24
	if days <= 0 {
		return
	}
	decayOne := func(v uint16) uint16 {
		reduction := int32(days * dailyDecay * 100)
		return clampGroup(int32(v) - reduction)
	}
	g.GroupA = decayOne(g.GroupA)
	g.GroupB = decayOne(g.GroupB)
	g.GroupC = decayOne(g.GroupC)
	g.GroupD = decayOne(g.GroupD)
	g.GroupE = decayOne(g.GroupE)
	g.LastModified = time.Now()
}

func (s *MemStore) GAWUpdate(_ context.Context, playerID uint32, mutate func(*GalaxyAtWar)) (*GalaxyAtWar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, _ := s.gawGetOrCreateLocked(playerID)
	mutate(g)
	g.GroupA = clampGroup(int32(g.GroupA))
	g.GroupB = clampGroup(int32(g.GroupB))
	g.GroupC = clampGroup(int32(g.GroupC))
	g.GroupD = clampGroup(int32(g.GroupD))
	g.GroupE = clampGroup(int32(g.GroupE))
	g.LastModified = time.Now()
	s.gaw[playerID] = g
	cp := *g
	return &cp, nil
}

func (s *MemStore) LeaderboardUpsert(_ context.Context, ty LeaderboardKind, playerID uint32, value uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.leaderboard[ty]
	if !ok {
		m = make(map[uint32]uint32)
		s.leaderboard[ty] = m
	}
	m[playerID] = value
	return nil
}

func (s *MemStore) LeaderboardAll(_ context.Context, ty LeaderboardKind) ([]LeaderboardRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []LeaderboardRow
	for pid, v := range s.leaderboard[ty] {
		out = append(out, LeaderboardRow{PlayerID: pid, Value: v})
	}
	return out, nil
}

func (s *MemStore) PlayerClassesAll(_ context.Context, playerID uint32) ([]PlayerClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PlayerClass, len(s.classes[playerID]))
	copy(out, s.classes[playerID])
	return out, nil
}

// SetPlayerClasses is a test/dev helper not part of the Store interface.
func (s *MemStore) SetPlayerClasses(playerID uint32, classes []PlayerClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[playerID] = classes
}

func (s *MemStore) DisplayNameFor(_ context.Context, playerID uint32) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[playerID]
	if !ok {
		return "", ErrNotFound
	}
	return p.DisplayName, nil
}

var _ Store = (*MemStore)(nil)
