package gsession

import (
	"time"

	"github.com/galaxyhost/server/internal/auth"
	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/persist"
	"github.com/galaxyhost/server/internal/tdf"
)

// gameSessionTokenTTL is effectively "does not expire until server
// restart" per spec.md §4.10; a long fixed TTL approximates that without
// needing a separate non-expiring token code path.
const gameSessionTokenTTL = 365 * 24 * time.Hour

// RegisterAuthRoutes wires the Authentication component (spec.md §4.3,
// §6).
func RegisterAuthRoutes(r *Router, svc *Services) {
	r.Register(blaze.ComponentAuthentication, blaze.CmdLogin, nil, loginHandler(svc))
	// SilentLogin reuses the UserSessions ResumeSession path: both resume
	// an existing player from a previously issued token.
	r.Register(blaze.ComponentAuthentication, blaze.CmdSilentLogin, nil, resumeSessionHandler(svc))
	r.Register(blaze.ComponentAuthentication, blaze.CmdOriginLogin, nil, originLoginHandler(svc))
	r.Register(blaze.ComponentAuthentication, blaze.CmdLogout, []State{StateAuthenticated, StateInGame}, logoutHandler(svc))
	r.Register(blaze.ComponentAuthentication, blaze.CmdCreateAccount, nil, createAccountHandler(svc))
	r.Register(blaze.ComponentAuthentication, blaze.CmdListUserEntitlements2, []State{StateAuthenticated, StateInGame}, listEntitlementsHandler())
}

func loginHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		email, _ := body.Get("MAIL")
		password, _ := body.Get("PASS")
		emailStr, _ := email.(tdf.Str)
		passStr, _ := password.(tdf.Str)

		p, err := svc.Store.PlayerByEmail(s.ctx(), string(emailStr))
		if err != nil {
			if err == persist.ErrNotFound {
				return nil, blaze.ErrEmailNotFound
			}
			return nil, blaze.ErrServerUnavailableNothing
		}
		if p.Password == nil {
			return nil, blaze.ErrInvalidAccount
		}
		ok, err := auth.VerifyPassword(*p.Password, string(passStr))
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		if !ok {
			return nil, blaze.ErrWrongPassword
		}

		return authenticateSession(svc, s, p)
	}
}

func resumeSessionHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		tokenVal, _ := body.Get("AUTH")
		tokenStr, _ := tokenVal.(tdf.Str)

		playerID, err := svc.Signer.Verify(string(tokenStr))
		if err != nil {
			return nil, blaze.ErrInvalidSession
		}
		p, err := svc.Store.PlayerByID(s.ctx(), playerID)
		if err != nil {
			if err == persist.ErrNotFound {
				return nil, blaze.ErrInvalidSession
			}
			return nil, blaze.ErrServerUnavailableNothing
		}
		return authenticateSession(svc, s, p)
	}
}

func originLoginHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		if svc.Retriever == nil {
			return nil, blaze.ErrInvalidAccount
		}
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		tokenVal, _ := body.Get("AUTH")
		tokenStr, _ := tokenVal.(tdf.Str)

		playerID, email, name, err := svc.Retriever.ResolveOriginToken(string(tokenStr))
		if err != nil {
			return nil, blaze.ErrInvalidAccount
		}
		p, err := svc.Store.PlayerByID(s.ctx(), playerID)
		if err == persist.ErrNotFound {
			p, err = svc.Store.CreatePlayer(s.ctx(), email, name, nil)
		}
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		return authenticateSession(svc, s, p)
	}
}

func createAccountHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		email, _ := body.Get("MAIL")
		password, _ := body.Get("PASS")
		emailStr, _ := email.(tdf.Str)
		passStr, _ := password.(tdf.Str)

		if _, err := svc.Store.PlayerByEmail(s.ctx(), string(emailStr)); err == nil {
			return nil, blaze.ErrEmailAlreadyInUse
		}
		hash, err := auth.HashPassword(string(passStr))
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		p, err := svc.Store.CreatePlayer(s.ctx(), string(emailStr), string(emailStr), &hash)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		return authenticateSession(svc, s, p)
	}
}

func logoutHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		if gid, ok := s.GameID(); ok {
			if g, ok := svc.Games.GetGame(gid); ok {
				if g.RemovePlayer(s.ID) {
					svc.Games.RemoveGame(gid)
				}
				svc.Matchmaking.Reevaluate()
			}
		}
		svc.Sessions.Remove(s)
		s.SetState(StateConnected)
		s.SetPlayerID(0)
		s.ClearGameID()
		return []tdf.Field{}, nil
	}
}

func listEntitlementsHandler() HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		return []tdf.Field{
			{Tag: "NLST", Value: tdf.List{ElemType: tdf.TypeGroup}},
		}, nil
	}
}

// authenticateSession finalizes a successful auth path: binds the player
// to the session, registers it with the authed-session index, updates
// last_login_at, and replies with the session token.
func authenticateSession(svc *Services, s *Session, p *persist.Player) ([]tdf.Field, error) {
	s.SetPlayerID(p.ID)
	s.SetState(StateAuthenticated)
	svc.Sessions.BindPlayer(p.ID, s)
	_ = svc.Store.SetLastLoginAt(s.ctx(), p.ID)

	token := svc.Signer.Issue(p.ID, gameSessionTokenTTL)
	return []tdf.Field{
		{Tag: "PID", Value: tdf.VarInt(p.ID)},
		{Tag: "NAME", Value: tdf.Str(p.DisplayName)},
		{Tag: "MAIL", Value: tdf.Str(p.Email)},
		{Tag: "AUTH", Value: tdf.Str(token)},
	}, nil
}
