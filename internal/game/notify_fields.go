package game

import "github.com/galaxyhost/server/internal/tdf"

// Field tags below are not enumerated by name in the protocol description
// this package implements against; they follow the general "four
// uppercase letters" Blaze convention and are internally consistent
// across this server and its test suite (see DESIGN.md).

func gameSetupFields(g *Game) []tdf.Field {
	var players tdf.List
	players.ElemType = tdf.TypeGroup
	for i, p := range g.slots {
		if p == nil {
			continue
		}
		players.Items = append(players.Items, &tdf.Group{Fields: []tdf.Field{
			{Tag: "SLOT", Value: tdf.VarInt(i)},
			{Tag: "PID", Value: tdf.VarInt(p.PlayerID)},
			{Tag: "PNAM", Value: tdf.Str(p.DisplayName)},
		}})
	}
	return []tdf.Field{
		{Tag: "GID", Value: tdf.VarInt(g.ID)},
		{Tag: "HOST", Value: tdf.VarInt(uint64(g.hostSlot()))},
		{Tag: "GSTA", Value: tdf.VarInt(uint64(g.state))},
		{Tag: "PLST", Value: players},
	}
}

func playerJoiningFields(gameID uint32, slot int, p *Player) []tdf.Field {
	return []tdf.Field{
		{Tag: "GID", Value: tdf.VarInt(gameID)},
		{Tag: "SLOT", Value: tdf.VarInt(uint64(slot))},
		{Tag: "PID", Value: tdf.VarInt(p.PlayerID)},
		{Tag: "PNAM", Value: tdf.Str(p.DisplayName)},
	}
}

func playerRemovedFields(gameID uint32, slot int) []tdf.Field {
	return []tdf.Field{
		{Tag: "GID", Value: tdf.VarInt(gameID)},
		{Tag: "SLOT", Value: tdf.VarInt(uint64(slot))},
	}
}

func hostMigrationFields(gameID uint32, newHostSlot int) []tdf.Field {
	return []tdf.Field{
		{Tag: "GID", Value: tdf.VarInt(gameID)},
		{Tag: "HOST", Value: tdf.VarInt(uint64(newHostSlot))},
	}
}

func attribChangeFields(gameID uint32, delta map[string]string) []tdf.Field {
	m := tdf.Map{KeyType: tdf.TypeString, ValType: tdf.TypeString}
	for k, v := range delta {
		m.Pairs = append(m.Pairs, tdf.MapPair{Key: tdf.Str(k), Val: tdf.Str(v)})
	}
	return []tdf.Field{
		{Tag: "GID", Value: tdf.VarInt(gameID)},
		{Tag: "ATTR", Value: m},
	}
}

func stateChangeFields(gameID uint32, to State) []tdf.Field {
	return []tdf.Field{
		{Tag: "GID", Value: tdf.VarInt(gameID)},
		{Tag: "GSTA", Value: tdf.VarInt(uint64(to))},
	}
}
