package httpapi

import (
	"net/http"
	"strconv"

	"github.com/galaxyhost/server/internal/game"
	"github.com/galaxyhost/server/internal/gsession"
	"github.com/gin-gonic/gin"
)

type gamePlayerJSON struct {
	Slot        int    `json:"slot"`
	PlayerID    uint32 `json:"player_id"`
	DisplayName string `json:"display_name"`
}

type gameJSON struct {
	ID       uint32            `json:"id"`
	State    string            `json:"state"`
	HostSlot int               `json:"host_slot"`
	Attrs    map[string]string `json:"attributes"`
	Players  []gamePlayerJSON  `json:"players"`
}

func snapshotToJSON(s game.Snapshot) gameJSON {
	players := make([]gamePlayerJSON, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, gamePlayerJSON{Slot: p.Slot, PlayerID: p.PlayerID, DisplayName: p.DisplayName})
	}
	return gameJSON{ID: s.ID, State: s.State.String(), HostSlot: s.HostSlot, Attrs: s.Attrs, Players: players}
}

// registerGamesRoutes wires GET /api/games and /api/games/{id} (spec.md
// §6), grounded on original_source/servers/http/src/routes/games.rs's
// snapshot()/snapshot_id() split.
func registerGamesRoutes(r gin.IRouter, svc *gsession.Services) {
	r.GET("/games", func(c *gin.Context) {
		snapshots := svc.Games.Snapshot()
		out := make([]gameJSON, 0, len(snapshots))
		for _, s := range snapshots {
			out = append(out, snapshotToJSON(s))
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/games/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		g, ok := svc.Games.GetGame(uint32(id))
		if !ok {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, snapshotToJSON(g.Snapshot()))
	})
}
