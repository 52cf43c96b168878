package gsession

import (
	"github.com/galaxyhost/server/internal/blaze"
	"github.com/galaxyhost/server/internal/tdf"
)

// sessionDataFields builds the "DATA" group every UserSessions
// notification embeds: address groups, QoS data, hardware flags, and (if
// the session is in a game) a one-element ULST triple naming it. This
// mirrors the reference client's expected session encoding beyond what
// spec.md's high-level UpdateNetwork/UpdateHardwareFlags description
// gives (see DESIGN.md).
func sessionDataFields(s *Session) *tdf.Group {
	n := s.Net()
	fields := []tdf.Field{
		{Tag: "EIP", Value: tdf.VarInt(n.External.IP)},
		{Tag: "EPRT", Value: tdf.VarInt(n.External.Port)},
		{Tag: "IIP", Value: tdf.VarInt(n.Internal.IP)},
		{Tag: "IPRT", Value: tdf.VarInt(n.Internal.Port)},
		{Tag: "HWFG", Value: tdf.VarInt(n.HardwareFlags)},
		{Tag: "DBPS", Value: tdf.VarInt(n.Qos.DownBps)},
		{Tag: "NATT", Value: tdf.VarInt(n.Qos.NatType)},
		{Tag: "UBPS", Value: tdf.VarInt(n.Qos.UpBps)},
	}
	if gid, ok := s.GameID(); ok {
		fields = append(fields, tdf.Field{Tag: "ULST", Value: tdf.List{
			ElemType: tdf.TypeTriple,
			Items:    []tdf.Value{tdf.Triple{uint64(blaze.ComponentGameManager), 1, uint64(gid)}},
		}})
	}
	return &tdf.Group{Fields: fields}
}

// userUpdatedFields builds a full SessionUpdate notification (spec.md
// §4.3's UserSessions fan-out), embedding both the session's DATA group
// and a USER group naming the player — the shape the reference client
// expects, beyond the single PID spec.md's text calls for.
func userUpdatedFields(s *Session, displayName string) []tdf.Field {
	return []tdf.Field{
		{Tag: "DATA", Value: sessionDataFields(s)},
		{Tag: "USER", Value: &tdf.Group{Fields: []tdf.Field{
			{Tag: "PID", Value: tdf.VarInt(s.PlayerID())},
			{Tag: "NAME", Value: tdf.Str(displayName)},
		}}},
	}
}
