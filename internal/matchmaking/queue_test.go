package matchmaking

import (
	"testing"
	"time"

	"github.com/galaxyhost/server/internal/game"
	"github.com/galaxyhost/server/internal/tdf"
	"go.uber.org/zap"
)

type nopSender struct{}

func (nopSender) SendTo(uint64, *tdf.Packet) {}

func TestBuildRuleAbstainIgnoresRule(t *testing.T) {
	r, ok := BuildRule("ME3_gameEnemyTypeRule", []string{"abstain"})
	if !ok || !r.Ignored {
		t.Fatalf("expected abstain to produce an ignored rule, got %+v ok=%v", r, ok)
	}
}

func TestBuildRuleUnknownKey(t *testing.T) {
	if _, ok := BuildRule("NotARealRule", []string{"x"}); ok {
		t.Fatal("expected unknown rule key to fail")
	}
}

func TestSubmitMatchesExistingGame(t *testing.T) {
	mgr := game.NewManager(nopSender{}, false)
	g := mgr.CreateGame(0, map[string]string{"ME3gameEnemyType": "enemy2"})
	g.AddPlayer(&game.Player{SessionID: 1, PlayerID: 1})

	q := NewQueue(mgr, nopSender{}, time.Minute, zap.NewNop())
	rule, _ := BuildRule("ME3_gameEnemyTypeRule", []string{"enemy2"})
	gid, matched := q.Submit(&Ticket{SessionID: 2, PlayerID: 2, Rules: []game.Rule{rule}})
	if !matched || gid != g.ID {
		t.Fatalf("expected immediate match against existing game, got matched=%v gid=%d", matched, gid)
	}
}

func TestSubmitEnqueuesWhenNoMatch(t *testing.T) {
	mgr := game.NewManager(nopSender{}, false)
	q := NewQueue(mgr, nopSender{}, time.Minute, zap.NewNop())
	rule, _ := BuildRule("ME3_gameEnemyTypeRule", []string{"enemy2"})
	_, matched := q.Submit(&Ticket{SessionID: 1, PlayerID: 1, Rules: []game.Rule{rule}})
	if matched {
		t.Fatal("expected no immediate match with no games registered")
	}
}

func TestReevaluateAbsorbsQueuedTicketOnGameCreation(t *testing.T) {
	mgr := game.NewManager(nopSender{}, false)
	q := NewQueue(mgr, nopSender{}, time.Minute, zap.NewNop())
	rule, _ := BuildRule("ME3_gameEnemyTypeRule", []string{"enemy2"})
	q.Submit(&Ticket{SessionID: 1, PlayerID: 1, Rules: []game.Rule{rule}})

	g := mgr.CreateGame(0, map[string]string{"ME3gameEnemyType": "enemy2"})
	q.Reevaluate()

	if g.PlayerCount() != 1 {
		t.Fatalf("expected queued ticket to be absorbed into new game, got %d players", g.PlayerCount())
	}
	q.mu.Lock()
	remaining := len(q.tickets)
	q.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected ticket queue to be empty after match, got %d", remaining)
	}
}

func TestCancelRemovesTicket(t *testing.T) {
	mgr := game.NewManager(nopSender{}, false)
	q := NewQueue(mgr, nopSender{}, time.Minute, zap.NewNop())
	q.Submit(&Ticket{SessionID: 1, PlayerID: 1})
	q.Cancel(1)
	q.mu.Lock()
	n := len(q.tickets)
	q.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected ticket to be cancelled, got %d remaining", n)
	}
}
