package gsession

import (
	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/leaderboard"
	"github.com/galaxyhost/server/internal/persist"
	"github.com/galaxyhost/server/internal/tdf"
)

// RegisterStatsRoutes wires the Stats component: full, centered and
// filtered leaderboard reads over the TTL-cached groupings C7 maintains
// (spec.md §4.7, §6).
func RegisterStatsRoutes(r *Router, svc *Services) {
	states := []State{StateAuthenticated, StateInGame}
	r.Register(blaze.ComponentStats, blaze.CmdGetLeaderboard, states, getLeaderboardHandler(svc))
	r.Register(blaze.ComponentStats, blaze.CmdGetCenteredLeaderboard, states, getCenteredLeaderboardHandler(svc))
	r.Register(blaze.ComponentStats, blaze.CmdGetFilteredLeaderboard, states, getFilteredLeaderboardHandler(svc))
	r.Register(blaze.ComponentStats, blaze.CmdGetLeaderboardEntityCount, states, getLeaderboardEntityCountHandler(svc))
}

func leaderboardKindFrom(body *tdf.Body) persist.LeaderboardKind {
	if v, ok := body.Get("LBID"); ok {
		if i, ok := v.(tdf.VarInt); ok {
			return persist.LeaderboardKind(i)
		}
	}
	return persist.LeaderboardN7Rating
}

func entryFields(e leaderboard.Entry) *tdf.Group {
	return &tdf.Group{Fields: []tdf.Field{
		{Tag: "PID", Value: tdf.VarInt(e.PlayerID)},
		{Tag: "PNAM", Value: tdf.Str(e.PlayerName)},
		{Tag: "RANK", Value: tdf.VarInt(uint64(e.Rank))},
		{Tag: "VALU", Value: tdf.VarInt(e.Value)},
	}}
}

func entriesList(entries []leaderboard.Entry) tdf.List {
	l := tdf.List{ElemType: tdf.TypeGroup}
	for _, e := range entries {
		l.Items = append(l.Items, entryFields(e))
	}
	return l
}

// getLeaderboardHandler returns the top N ranked entries for the
// requested leaderboard kind.
func getLeaderboardHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		kind := leaderboardKindFrom(body)
		count := 50
		if v, ok := body.Get("CNT"); ok {
			if i, ok := v.(tdf.VarInt); ok && i > 0 {
				count = int(i)
			}
		}

		entries, err := svc.Leaderboard.Get(s.ctx(), kind)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		if count < len(entries) {
			entries = entries[:count]
		}
		return []tdf.Field{
			{Tag: "LBID", Value: tdf.VarInt(uint64(kind))},
			{Tag: "LIST", Value: entriesList(entries)},
		}, nil
	}
}

// getCenteredLeaderboardHandler returns a window of entries centered on
// the requesting (or named) player's own rank.
func getCenteredLeaderboardHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		kind := leaderboardKindFrom(body)
		centerPlayer := s.PlayerID()
		if v, ok := body.Get("PID"); ok {
			if i, ok := v.(tdf.VarInt); ok && i != 0 {
				centerPlayer = uint32(i)
			}
		}
		radius := 5
		if v, ok := body.Get("CNT"); ok {
			if i, ok := v.(tdf.VarInt); ok && i > 0 {
				radius = int(i)
			}
		}

		entries, err := svc.Leaderboard.Get(s.ctx(), kind)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		center := -1
		for i, e := range entries {
			if e.PlayerID == centerPlayer {
				center = i
				break
			}
		}
		if center == -1 {
			return []tdf.Field{
				{Tag: "LBID", Value: tdf.VarInt(uint64(kind))},
				{Tag: "LIST", Value: entriesList(nil)},
			}, nil
		}
		lo := center - radius
		if lo < 0 {
			lo = 0
		}
		hi := center + radius + 1
		if hi > len(entries) {
			hi = len(entries)
		}
		return []tdf.Field{
			{Tag: "LBID", Value: tdf.VarInt(uint64(kind))},
			{Tag: "LIST", Value: entriesList(entries[lo:hi])},
		}, nil
	}
}

// getFilteredLeaderboardHandler returns entries for an explicit list of
// player IDs, in whatever relative rank order they hold.
func getFilteredLeaderboardHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		kind := leaderboardKindFrom(body)
		want := make(map[uint32]struct{})
		if v, ok := body.Get("PIDS"); ok {
			if lst, ok := v.(tdf.List); ok {
				for _, item := range lst.Items {
					if i, ok := item.(tdf.VarInt); ok {
						want[uint32(i)] = struct{}{}
					}
				}
			}
		}

		entries, err := svc.Leaderboard.Get(s.ctx(), kind)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		var filtered []leaderboard.Entry
		for _, e := range entries {
			if _, ok := want[e.PlayerID]; ok {
				filtered = append(filtered, e)
			}
		}
		return []tdf.Field{
			{Tag: "LBID", Value: tdf.VarInt(uint64(kind))},
			{Tag: "LIST", Value: entriesList(filtered)},
		}, nil
	}
}

func getLeaderboardEntityCountHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		kind := leaderboardKindFrom(body)
		entries, err := svc.Leaderboard.Get(s.ctx(), kind)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		return []tdf.Field{
			{Tag: "CNT", Value: tdf.VarInt(uint64(len(entries)))},
		}, nil
	}
}
