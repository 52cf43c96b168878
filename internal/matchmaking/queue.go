package matchmaking

import (
	"context"
	"sync"
	"time"

	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/game"
	"github.com/galaxyhost/server/internal/tdf"
	"go.uber.org/zap"
)

// Ticket is a queued matchmaking request (spec.md §3 MatchTicket).
type Ticket struct {
	SessionID   uint64
	PlayerID    uint32
	DisplayName string
	Rules       []game.Rule
	CreatedAt   time.Time
}

// Queue holds pending tickets and evaluates them against the game
// registry, per spec.md §4.6.
type Queue struct {
	mu      sync.Mutex
	tickets []*Ticket

	manager *game.Manager
	sender  game.Sender
	timeout time.Duration
	log     *zap.Logger

	// OnMatched is invoked whenever a queued ticket (not the caller of
	// Submit, which learns the result from its return value) is absorbed
	// into a game during Reevaluate, so the owning gsession package can
	// update that player's Session.GameID/State. Optional.
	OnMatched func(playerID uint32, gameID uint32)
}

func NewQueue(manager *game.Manager, sender game.Sender, timeout time.Duration, log *zap.Logger) *Queue {
	return &Queue{
		manager: manager,
		sender:  sender,
		timeout: timeout,
		log:     log,
	}
}

// Submit tries an immediate match; on success it admits the player into
// the matched game and returns its ID. Otherwise the ticket is enqueued.
func (q *Queue) Submit(t *Ticket) (uint32, bool) {
	t.CreatedAt = time.Now()
	if g, ok := q.manager.TryMatch(t.Rules); ok {
		if _, err := g.AddPlayer(&game.Player{SessionID: t.SessionID, PlayerID: t.PlayerID, DisplayName: t.DisplayName}); err == nil {
			return g.ID, true
		}
	}

	q.mu.Lock()
	q.tickets = append(q.tickets, t)
	q.mu.Unlock()
	return 0, false
}

// Cancel removes a session's ticket, if any, silently.
func (q *Queue) Cancel(sessionID uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.tickets {
		if t.SessionID == sessionID {
			q.tickets = append(q.tickets[:i], q.tickets[i+1:]...)
			return
		}
	}
}

// Reevaluate attempts TryMatch for every queued ticket in insertion order;
// a game may absorb multiple tickets in one pass. Call after any game
// creation, attribute change, state change, or player removal.
func (q *Queue) Reevaluate() {
	q.mu.Lock()
	pending := q.tickets
	q.tickets = nil
	q.mu.Unlock()

	var remaining []*Ticket
	for _, t := range pending {
		g, ok := q.manager.TryMatch(t.Rules)
		if !ok {
			remaining = append(remaining, t)
			continue
		}
		if _, err := g.AddPlayer(&game.Player{SessionID: t.SessionID, PlayerID: t.PlayerID, DisplayName: t.DisplayName}); err != nil {
			remaining = append(remaining, t)
			continue
		}
		if q.OnMatched != nil {
			q.OnMatched(t.PlayerID, g.ID)
		}
	}

	q.mu.Lock()
	q.tickets = append(remaining, q.tickets...)
	q.mu.Unlock()
}

// Run periodically expires tickets older than the configured timeout,
// notifying their sessions, until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.expireStale()
		}
	}
}

func (q *Queue) expireStale() {
	now := time.Now()
	q.mu.Lock()
	var keep []*Ticket
	var expired []*Ticket
	for _, t := range q.tickets {
		if now.Sub(t.CreatedAt) >= q.timeout {
			expired = append(expired, t)
		} else {
			keep = append(keep, t)
		}
	}
	q.tickets = keep
	q.mu.Unlock()

	for _, t := range expired {
		q.log.Info("matchmaking ticket expired", zap.Uint64("session", t.SessionID), zap.Uint32("player", t.PlayerID))
		q.sender.SendTo(t.SessionID, &tdf.Packet{
			Component: blaze.ComponentGameManager,
			Command:   blaze.NotifyMatchmakingFailed,
			QType:     tdf.QTypeNotify,
			Body: tdf.EncodeBody([]tdf.Field{
				{Tag: "PID", Value: tdf.VarInt(t.PlayerID)},
			}),
		})
	}
}
