package gsession

import (
	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/game"
	"github.com/galaxyhost/server/internal/matchmaking"
	"github.com/galaxyhost/server/internal/tdf"
)

// RegisterGameManagerRoutes wires the GameManager component: game
// creation/teardown, state/attribute transitions, slot management, and
// matchmaking entry points (spec.md §4.4-4.6, §6).
func RegisterGameManagerRoutes(r *Router, svc *Services) {
	states := []State{StateAuthenticated, StateInGame}
	r.Register(blaze.ComponentGameManager, blaze.CmdCreateGame, states, createGameHandler(svc))
	r.Register(blaze.ComponentGameManager, blaze.CmdDestroyGame, []State{StateInGame}, destroyGameHandler(svc))
	r.Register(blaze.ComponentGameManager, blaze.CmdAdvanceGameState, []State{StateInGame}, advanceGameStateHandler(svc))
	r.Register(blaze.ComponentGameManager, blaze.CmdSetGameAttributes, []State{StateInGame}, setGameAttributesHandler(svc))
	r.Register(blaze.ComponentGameManager, blaze.CmdRemovePlayer, []State{StateInGame}, removePlayerHandler(svc))
	r.Register(blaze.ComponentGameManager, blaze.CmdJoinGame, states, joinGameHandler(svc))
	r.Register(blaze.ComponentGameManager, blaze.CmdStartMatchmaking, states, startMatchmakingHandler(svc))
	r.Register(blaze.ComponentGameManager, blaze.CmdCancelMatchmaking, states, cancelMatchmakingHandler(svc))
}

func createGameHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		attrs := decodeAttrMap(body, "ATTR")
		var settings uint16
		if v, ok := body.Get("GSET"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				settings = uint16(i)
			}
		}

		g := svc.Games.CreateGame(settings, attrs)
		displayName, _ := svc.Store.DisplayNameFor(s.ctx(), s.PlayerID())
		if _, err := g.AddPlayer(&game.Player{SessionID: s.ID, PlayerID: s.PlayerID(), DisplayName: displayName, Net: s.Net()}); err != nil {
			svc.Games.RemoveGame(g.ID)
			return nil, blaze.ErrGameFull
		}
		s.SetGameID(g.ID)
		s.SetState(StateInGame)
		svc.Matchmaking.Reevaluate()

		return []tdf.Field{
			{Tag: "GID", Value: tdf.VarInt(g.ID)},
		}, nil
	}
}

func destroyGameHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		gid, ok := s.GameID()
		if !ok {
			return nil, blaze.ErrUnknownGame
		}
		g, ok := svc.Games.GetGame(gid)
		if !ok {
			return nil, blaze.ErrUnknownGame
		}
		for _, p := range g.Snapshot().Players {
			if peer, ok := svc.Sessions.ByPlayer(p.PlayerID); ok {
				peer.ClearGameID()
				peer.SetState(StateAuthenticated)
			}
		}
		svc.Games.RemoveGame(gid)
		svc.Matchmaking.Reevaluate()
		return []tdf.Field{}, nil
	}
}

func advanceGameStateHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		gid, ok := s.GameID()
		if !ok {
			return nil, blaze.ErrUnknownGame
		}
		g, ok := svc.Games.GetGame(gid)
		if !ok {
			return nil, blaze.ErrUnknownGame
		}
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		var to game.State
		if v, ok := body.Get("GSTA"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				to = game.State(i)
			}
		}
		if !g.SetState(to) {
			return nil, blaze.ErrInvalidInformation
		}
		svc.Matchmaking.Reevaluate()
		return []tdf.Field{}, nil
	}
}

func setGameAttributesHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		gid, ok := s.GameID()
		if !ok {
			return nil, blaze.ErrUnknownGame
		}
		g, ok := svc.Games.GetGame(gid)
		if !ok {
			return nil, blaze.ErrUnknownGame
		}
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		updates := decodeAttrMap(body, "ATTR")
		g.SetAttributes(updates)
		svc.Matchmaking.Reevaluate()
		return []tdf.Field{}, nil
	}
}

func removePlayerHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		gid, ok := s.GameID()
		if !ok {
			return nil, blaze.ErrUnknownGame
		}
		g, ok := svc.Games.GetGame(gid)
		if !ok {
			return nil, blaze.ErrUnknownGame
		}
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		var targetPlayer uint32
		if v, ok := body.Get("PID"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				targetPlayer = uint32(i)
			}
		}
		target, ok := svc.Sessions.ByPlayer(targetPlayer)
		if !ok {
			return nil, blaze.ErrUnknownGame
		}
		if g.RemovePlayer(target.ID) {
			svc.Games.RemoveGame(gid)
		}
		target.ClearGameID()
		target.SetState(StateAuthenticated)
		svc.Matchmaking.Reevaluate()
		return []tdf.Field{}, nil
	}
}

func joinGameHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		var gid uint32
		if v, ok := body.Get("GID"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				gid = uint32(i)
			}
		}
		g, ok := svc.Games.GetGame(gid)
		if !ok {
			return nil, blaze.ErrUnknownGame
		}
		displayName, _ := svc.Store.DisplayNameFor(s.ctx(), s.PlayerID())
		if _, err := g.AddPlayer(&game.Player{SessionID: s.ID, PlayerID: s.PlayerID(), DisplayName: displayName, Net: s.Net()}); err != nil {
			return nil, blaze.ErrGameFull
		}
		s.SetGameID(gid)
		s.SetState(StateInGame)
		return []tdf.Field{
			{Tag: "GID", Value: tdf.VarInt(gid)},
		}, nil
	}
}

func startMatchmakingHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		rules := decodeRules(body)

		displayName, _ := svc.Store.DisplayNameFor(s.ctx(), s.PlayerID())
		ticket := &matchmaking.Ticket{
			SessionID:   s.ID,
			PlayerID:    s.PlayerID(),
			DisplayName: displayName,
			Rules:       rules,
		}
		if gid, matched := svc.Matchmaking.Submit(ticket); matched {
			s.SetGameID(gid)
			s.SetState(StateInGame)
			return []tdf.Field{
				{Tag: "GID", Value: tdf.VarInt(gid)},
			}, nil
		}
		return []tdf.Field{
			{Tag: "GID", Value: tdf.VarInt(0)},
		}, nil
	}
}

func cancelMatchmakingHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		svc.Matchmaking.Cancel(s.ID)
		return []tdf.Field{}, nil
	}
}

// decodeAttrMap reads a String/String map field into a plain Go map.
func decodeAttrMap(body *tdf.Body, tag string) map[string]string {
	out := make(map[string]string)
	v, ok := body.Get(tag)
	if !ok {
		return out
	}
	m, ok := v.(tdf.Map)
	if !ok {
		return out
	}
	for _, pair := range m.Pairs {
		k, kok := pair.Key.(tdf.Str)
		val, vok := pair.Val.(tdf.Str)
		if kok && vok {
			out[string(k)] = string(val)
		}
	}
	return out
}

// decodeRules reads the "RLST" rule-criteria map (rule key -> allowed
// value list) a StartMatchmaking request carries.
func decodeRules(body *tdf.Body) []game.Rule {
	v, ok := body.Get("RLST")
	if !ok {
		return nil
	}
	m, ok := v.(tdf.Map)
	if !ok {
		return nil
	}
	var rules []game.Rule
	for _, pair := range m.Pairs {
		key, kok := pair.Key.(tdf.Str)
		if !kok {
			continue
		}
		var values []string
		if lst, ok := pair.Val.(tdf.List); ok {
			for _, item := range lst.Items {
				if s, ok := item.(tdf.Str); ok {
					values = append(values, string(s))
				}
			}
		} else if s, ok := pair.Val.(tdf.Str); ok {
			values = []string{string(s)}
		}
		if r, ok := matchmaking.BuildRule(string(key), values); ok {
			rules = append(rules, r)
		}
	}
	return rules
}
