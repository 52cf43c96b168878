package gsession

import (
	"github.com/galaxyhost/server/internal/auth"
	"github.com/galaxyhost/server/internal/game"
	"github.com/galaxyhost/server/internal/leaderboard"
	"github.com/galaxyhost/server/internal/matchmaking"
	"github.com/galaxyhost/server/internal/persist"
	"go.uber.org/zap"
)

// Services bundles every collaborator a handler may call into, replacing
// ad hoc global state (spec.md §9 "a single Services value held at server
// construction and passed explicitly").
type Services struct {
	Store       persist.Store
	Signer      *auth.Signer
	Games       *game.Manager
	Matchmaking *matchmaking.Queue
	Leaderboard *leaderboard.Cache
	Sessions    *Index
	Retriever   OriginRetriever
	MenuMessage string
	Log         *zap.Logger
}

// OriginRetriever is the optional outbound collaborator that resolves an
// Origin SSO token to a player identity (spec.md GLOSSARY "Retriever").
// Out of scope beyond this interface: no implementation ships by default.
type OriginRetriever interface {
	ResolveOriginToken(token string) (playerID uint32, email, displayName string, err error)
}

// WireMatchmakingCallback hooks svc.Matchmaking.OnMatched so that a ticket
// absorbed during Reevaluate (as opposed to the immediate match a caller
// of Submit observes via its return value) still updates the matched
// player's Session.GameID/State. Call once after both Sessions and
// Matchmaking are set on svc.
func WireMatchmakingCallback(svc *Services) {
	svc.Matchmaking.OnMatched = func(playerID uint32, gameID uint32) {
		s, ok := svc.Sessions.ByPlayer(playerID)
		if !ok {
			return
		}
		s.SetGameID(gameID)
		s.SetState(StateInGame)
	}
}
