package game

import (
	"testing"

	"github.com/galaxyhost/server/internal/tdf"
)

type recordingSender struct {
	sent []sentNotify
}

type sentNotify struct {
	sessionID uint64
	component uint16
	command   uint16
}

func (s *recordingSender) SendTo(sessionID uint64, pkt *tdf.Packet) {
	s.sent = append(s.sent, sentNotify{sessionID, pkt.Component, pkt.Command})
}

func TestAddPlayerFillsSlotsAndRejectsOverflow(t *testing.T) {
	sender := &recordingSender{}
	mgr := NewManager(sender, false)
	g := mgr.CreateGame(0, map[string]string{"ME3map": "map2"})

	for i := 0; i < MaxPlayers; i++ {
		slot, err := g.AddPlayer(&Player{SessionID: uint64(i + 1), PlayerID: uint32(i + 1)})
		if err != nil {
			t.Fatalf("add player %d: %v", i, err)
		}
		if slot != i {
			t.Fatalf("expected slot %d, got %d", i, slot)
		}
	}

	if _, err := g.AddPlayer(&Player{SessionID: 99, PlayerID: 99}); err == nil {
		t.Fatal("expected fifth player to be rejected")
	}
}

func TestHostMigrationOnHostRemoval(t *testing.T) {
	sender := &recordingSender{}
	mgr := NewManager(sender, false)
	g := mgr.CreateGame(0, nil)

	g.AddPlayer(&Player{SessionID: 1, PlayerID: 1}) // host, slot 0
	g.AddPlayer(&Player{SessionID: 2, PlayerID: 2}) // slot 1

	if g.hostSlot() != 0 {
		t.Fatalf("expected initial host slot 0, got %d", g.hostSlot())
	}

	empty := g.RemovePlayer(1)
	if empty {
		t.Fatal("game should not be empty after removing one of two players")
	}
	if g.hostSlot() != 1 {
		t.Fatalf("expected new host slot 1, got %d", g.hostSlot())
	}

	var sawStart, sawFinish, sawRemoved bool
	startIdx, finishIdx, removedIdx := -1, -1, -1
	for i, n := range sender.sent {
		switch n.command {
		case 0x0D: // NotifyHostMigrationStart
			sawStart = true
			startIdx = i
		case 0x0E: // NotifyHostMigrationFinish
			sawFinish = true
			finishIdx = i
		case 0x06: // NotifyPlayerRemoved
			sawRemoved = true
			removedIdx = i
		}
	}
	if !sawStart || !sawFinish || !sawRemoved {
		t.Fatalf("expected migration start/finish and removal notifications, got %+v", sender.sent)
	}
	if !(removedIdx < startIdx && startIdx < finishIdx) {
		t.Fatalf("expected removed, then migration start, then finish order, got %+v", sender.sent)
	}
}

func TestRemovingLastPlayerReportsEmpty(t *testing.T) {
	sender := &recordingSender{}
	mgr := NewManager(sender, false)
	g := mgr.CreateGame(0, nil)
	g.AddPlayer(&Player{SessionID: 1, PlayerID: 1})

	if empty := g.RemovePlayer(1); !empty {
		t.Fatal("expected game to report empty after removing its only player")
	}
}

func TestTryMatchHonorsAttributeRules(t *testing.T) {
	sender := &recordingSender{}
	mgr := NewManager(sender, false)
	g1 := mgr.CreateGame(0, map[string]string{
		"ME3gameDifficulty": "difficulty0",
		"ME3gameEnemyType":  "enemy2",
		"ME3map":            "random",
	})
	g1.AddPlayer(&Player{SessionID: 1, PlayerID: 1})

	matchRules := []Rule{
		{Attr: "ME3gameDifficulty", Allowed: map[string]struct{}{"difficulty0": {}, "difficulty1": {}}},
		{Attr: "ME3gameEnemyType", Allowed: map[string]struct{}{"enemy2": {}}},
		{Attr: "ME3map", Ignored: true},
	}
	matched, ok := mgr.TryMatch(matchRules)
	if !ok || matched.ID != g1.ID {
		t.Fatalf("expected match against g1, got ok=%v matched=%v", ok, matched)
	}

	noMatchRules := []Rule{
		{Attr: "ME3gameEnemyType", Allowed: map[string]struct{}{"enemy3": {}}},
	}
	if _, ok := mgr.TryMatch(noMatchRules); ok {
		t.Fatal("expected no match for enemy3-only rule")
	}
}

func TestTryMatchSkipsFullGames(t *testing.T) {
	sender := &recordingSender{}
	mgr := NewManager(sender, false)
	g := mgr.CreateGame(0, nil)
	for i := 0; i < MaxPlayers; i++ {
		g.AddPlayer(&Player{SessionID: uint64(i + 1), PlayerID: uint32(i + 1)})
	}
	if _, ok := mgr.TryMatch(nil); ok {
		t.Fatal("expected no match when the only game is full")
	}
}
