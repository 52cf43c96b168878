package httpapi

import (
	"net/http"

	"github.com/galaxyhost/server/internal/gsession"
	"github.com/galaxyhost/server/internal/persist"
	"github.com/gin-gonic/gin"
)

// registerLeaderboardRoutes wires GET /api/leaderboard/{n7|cp} (spec.md
// §6), grounded on original_source's get_n7/get_cp split in
// servers/http/src/routes/leaderboard.rs.
func registerLeaderboardRoutes(r gin.IRouter, svc *gsession.Services) {
	r.GET("/leaderboard/n7", leaderboardHandler(svc, persist.LeaderboardN7Rating))
	r.GET("/leaderboard/cp", leaderboardHandler(svc, persist.LeaderboardChallengePoints))
}

func leaderboardHandler(svc *gsession.Services, kind persist.LeaderboardKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := svc.Leaderboard.Get(c.Request.Context(), kind)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
