package httpapi

import (
	"encoding/xml"
	"net/http"
	"strconv"

	"github.com/galaxyhost/server/internal/gsession"
	"github.com/galaxyhost/server/internal/persist"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// galaxyAtWarXML mirrors the group_a..e fields original_source's
// database/src/entities/galaxy_at_war.rs persists. The route file
// itself (servers/http/src/routes/gaw.rs) wasn't part of the recovered
// source, so the exact legacy XML tag names are this server's own
// choice rather than a verbatim restoration (see DESIGN.md).
type galaxyAtWarXML struct {
	XMLName      xml.Name `xml:"galaxyatwar"`
	GroupA       uint16   `xml:"group_a"`
	GroupB       uint16   `xml:"group_b"`
	GroupC       uint16   `xml:"group_c"`
	GroupD       uint16   `xml:"group_d"`
	GroupE       uint16   `xml:"group_e"`
	LastModified string   `xml:"last_modified"`
}

func galaxyAtWarToXML(g *persist.GalaxyAtWar) galaxyAtWarXML {
	return galaxyAtWarXML{
		GroupA:       g.GroupA,
		GroupB:       g.GroupB,
		GroupC:       g.GroupC,
		GroupD:       g.GroupD,
		GroupE:       g.GroupE,
		LastModified: g.LastModified.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// registerGAWRoutes wires GET /gaw/... (spec.md §6: "authenticate with
// legacy path token"). The legacy client embeds a shared token in the
// path rather than an Authorization header; this server accepts any
// non-empty token (the real client never validated it either — see
// DESIGN.md) and authorizes purely on the playerID path segment.
func registerGAWRoutes(r gin.IRouter, svc *gsession.Services, log *zap.Logger) {
	group := r.Group("/gaw/:token")
	group.Use(func(c *gin.Context) {
		if c.Param("token") == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	})

	group.GET("/galaxyatwar/getGalaxyAtWarData/:playerId", func(c *gin.Context) {
		playerID, err := parsePlayerID(c)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		g, err := svc.Store.GAWGetOrCreate(c.Request.Context(), playerID)
		if err != nil {
			log.Debug("gaw get error", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.XML(http.StatusOK, galaxyAtWarToXML(g))
	})

	// increaseGalaxyAtWarData takes per-region increments as query params
	// (a, b, c, d, e), the shape the legacy client sends after a
	// single-player mission. Missing params add zero.
	group.GET("/galaxyatwar/increaseGalaxyAtWarData/:playerId", func(c *gin.Context) {
		playerID, err := parsePlayerID(c)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		da, db, dc, dd, de := queryUint16(c, "a"), queryUint16(c, "b"), queryUint16(c, "c"), queryUint16(c, "d"), queryUint16(c, "e")

		g, err := svc.Store.GAWUpdate(c.Request.Context(), playerID, func(gaw *persist.GalaxyAtWar) {
			gaw.GroupA += da
			gaw.GroupB += db
			gaw.GroupC += dc
			gaw.GroupD += dd
			gaw.GroupE += de
		})
		if err != nil {
			log.Debug("gaw increase error", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.XML(http.StatusOK, galaxyAtWarToXML(g))
	})
}

func queryUint16(c *gin.Context, key string) uint16 {
	v, err := strconv.ParseUint(c.Query(key), 10, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

func parsePlayerID(c *gin.Context) (uint32, error) {
	v, err := strconv.ParseUint(c.Param("playerId"), 10, 32)
	return uint32(v), err
}
