package gsession

import (
	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/tdf"
)

// RegisterUserSessionsRoutes wires the UserSessions component (spec.md
// §4.3's UpdateNetwork/UpdateHardwareFlags/ResumeSession operations).
func RegisterUserSessionsRoutes(r *Router, svc *Services) {
	r.Register(blaze.ComponentUserSessions, blaze.CmdResumeSession, nil, resumeSessionHandler(svc))
	r.Register(blaze.ComponentUserSessions, blaze.CmdUpdateNetworkInfo, []State{StateAuthenticated, StateInGame}, updateNetworkHandler(svc))
	r.Register(blaze.ComponentUserSessions, blaze.CmdUpdateHardwareFlags, []State{StateAuthenticated, StateInGame}, updateHardwareFlagsHandler())
	r.Register(blaze.ComponentUserSessions, blaze.CmdSetSession, []State{StateAuthenticated, StateInGame}, setSessionHandler())
}

func updateNetworkHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}

		net := s.Net()
		if v, ok := body.Get("EIP"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				net.External.IP = uint32(i)
			}
		}
		if v, ok := body.Get("EPRT"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				net.External.Port = uint16(i)
			}
		}
		if v, ok := body.Get("IIP"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				net.Internal.IP = uint32(i)
			}
		}
		if v, ok := body.Get("IPRT"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				net.Internal.Port = uint16(i)
			}
		}
		if v, ok := body.Get("DBPS"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				net.Qos.DownBps = uint32(i)
			}
		}
		if v, ok := body.Get("NATT"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				net.Qos.NatType = uint32(i)
			}
		}
		if v, ok := body.Get("UBPS"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				net.Qos.UpBps = uint32(i)
			}
		}
		s.SetNet(net)

		if gid, inGame := s.GameID(); inGame {
			broadcastSessionUpdate(svc, s, gid)
		}
		return []tdf.Field{}, nil
	}
}

func updateHardwareFlagsHandler() HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		if v, ok := body.Get("HWFG"); ok {
			if i, ok := v.(tdf.VarInt); ok {
				s.SetHardwareFlags(uint16(i))
			}
		}
		return []tdf.Field{}, nil
	}
}

func setSessionHandler() HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		return []tdf.Field{}, nil
	}
}

// broadcastSessionUpdate sends a SessionUpdated notification to every other
// occupant of the session's current game (spec.md §4.3 SetGame/subscription
// fan-out).
func broadcastSessionUpdate(svc *Services, s *Session, gameID uint32) {
	g, ok := svc.Games.GetGame(gameID)
	if !ok {
		return
	}
	for _, p := range g.Snapshot().Players {
		if p.PlayerID == s.PlayerID() {
			continue
		}
		peer, ok := svc.Sessions.ByPlayer(p.PlayerID)
		if !ok {
			continue
		}
		displayName, _ := svc.Store.DisplayNameFor(s.ctx(), s.PlayerID())
		svc.Sessions.SendTo(peer.ID, &tdf.Packet{
			Component: blaze.ComponentUserSessions,
			Command:   blaze.NotifyUserSessionUpdated,
			QType:     tdf.QTypeNotify,
			Body:      tdf.EncodeBody(userUpdatedFields(s, displayName)),
		})
	}
}
