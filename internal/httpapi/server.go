// Package httpapi is the out-of-core HTTP surface spec.md §6 calls
// "informational; not the core": server details, admin auth/games/
// leaderboard introspection, the legacy QoS XML probe, GAW endpoints,
// and embedded static content. Grounded on the gin admin panel shape
// in other_examples (abdulsametsahin-poker-engine's cmd/server) and on
// the route split in original_source/servers/http/src/routes/*.rs.
package httpapi

import (
	"net/http"

	"github.com/galaxyhost/server/internal/gsession"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config carries the advertised ports and admin credentials; spec.md
// §6's PR_* environment variables feed this via internal/config.
type Config struct {
	Version        string
	MainPort       uint16
	HTTPPort       uint16
	RedirectorPort uint16
	QosPort        uint16
	APIEnabled     bool
	APIUsername    string
	APIPassword    string
}

// adminPlayerID is the sentinel Signer subject used for the HTTP admin
// bearer token, so the token path reuses auth.Signer (spec.md §4.10)
// instead of a second secret store (see DESIGN.md).
const adminPlayerID = 0

// New builds the gin engine with every route group spec.md §6 lists.
// Routes guarded by cfg.APIEnabled mirror original_source's
// `if env::from_env(env::API) { ... }` gate in routes/mod.rs.
func New(cfg Config, svc *gsession.Services, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), zapLogger(log))

	registerServerRoutes(r, cfg)
	registerQosRoutes(r, cfg)
	registerGAWRoutes(r, svc, log)
	registerContentRoutes(r)

	if cfg.APIEnabled {
		registerAuthRoutes(r, cfg, svc)

		protected := r.Group("/api")
		protected.Use(requireAdminToken(svc))
		registerGamesRoutes(protected, svc)
		registerLeaderboardRoutes(protected, svc)
	}

	return r
}

// zapLogger adapts gin's request lifecycle to the teacher's zap-based
// logging rather than gin's default writer (spec.md's ambient logging
// stack, matched throughout internal/gsession). Each request gets a
// uuid correlation id, echoed back in X-Request-Id, so a line in the
// admin log can be tied back to a client report.
func zapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.NewString()
		c.Writer.Header().Set("X-Request-Id", reqID)
		c.Next()
		log.Debug("http request",
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}

func requireAdminToken(svc *gsession.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := header[len(prefix):]
		playerID, err := svc.Signer.Verify(token)
		if err != nil || playerID != adminPlayerID {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
