package gsession

import (
	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/tdf"
)

// RegisterUtilRoutes wires the Util component: pre/post-auth handshake,
// keepalive ping, client config, and arbitrary user settings persisted as
// player-data rows (spec.md §6).
func RegisterUtilRoutes(r *Router, svc *Services) {
	r.Register(blaze.ComponentUtil, blaze.CmdPreAuth, nil, preAuthHandler(svc))
	r.Register(blaze.ComponentUtil, blaze.CmdPostAuth, nil, postAuthHandler())
	r.Register(blaze.ComponentUtil, blaze.CmdPing, nil, pingHandler())
	r.Register(blaze.ComponentUtil, blaze.CmdFetchClientConfig, nil, fetchClientConfigHandler())
	r.Register(blaze.ComponentUtil, blaze.CmdUserSettingsLoad, []State{StateAuthenticated, StateInGame}, userSettingsLoadHandler(svc))
	r.Register(blaze.ComponentUtil, blaze.CmdUserSettingsSave, []State{StateAuthenticated, StateInGame}, userSettingsSaveHandler(svc))
}

func preAuthHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		return []tdf.Field{
			{Tag: "MOTD", Value: tdf.Str(svc.MenuMessage)},
		}, nil
	}
}

func postAuthHandler() HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		return []tdf.Field{}, nil
	}
}

func pingHandler() HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		return []tdf.Field{
			{Tag: "STIM", Value: tdf.VarInt(0)},
		}, nil
	}
}

func fetchClientConfigHandler() HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		return []tdf.Field{
			{Tag: "CONF", Value: tdf.Map{KeyType: tdf.TypeString, ValType: tdf.TypeString}},
		}, nil
	}
}

func userSettingsLoadHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		all, err := svc.Store.PlayerDataAll(s.ctx(), s.PlayerID())
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		m := tdf.Map{KeyType: tdf.TypeString, ValType: tdf.TypeString}
		for k, v := range all {
			m.Pairs = append(m.Pairs, tdf.MapPair{Key: tdf.Str(k), Val: tdf.Str(v)})
		}
		return []tdf.Field{
			{Tag: "SMAP", Value: m},
		}, nil
	}
}

func userSettingsSaveHandler(svc *Services) HandlerFunc {
	return func(s *Session, req *tdf.Packet) ([]tdf.Field, error) {
		body, err := tdf.DecodeBody(req.Body)
		if err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		keyVal, _ := body.Get("KEY")
		dataVal, _ := body.Get("DATA")
		key, _ := keyVal.(tdf.Str)
		data, _ := dataVal.(tdf.Str)
		if key == "" {
			return nil, blaze.ErrInvalidInformation
		}
		if err := svc.Store.PlayerDataSet(s.ctx(), s.PlayerID(), string(key), string(data)); err != nil {
			return nil, blaze.ErrServerUnavailableNothing
		}
		return []tdf.Field{}, nil
	}
}
