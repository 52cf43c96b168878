package httpapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/galaxyhost/server/internal/gsession"
	"github.com/gin-gonic/gin"
)

// adminTokenTTL mirrors original_source/servers/http/src/stores/token.rs's
// TOKEN_LIFE_DURATION (one day).
const adminTokenTTL = 24 * time.Hour

type authRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string `json:"token"`
}

// registerAuthRoutes wires POST /api/auth: constant-time credential check
// against cfg.APIUsername/Password, then an auth.Signer-backed bearer
// token rather than token.rs's random in-memory map, so both the Blaze
// resume-session path and this admin path share one signer (see
// DESIGN.md).
func registerAuthRoutes(r gin.IRouter, cfg Config, svc *gsession.Services) {
	r.POST("/api/auth", func(c *gin.Context) {
		var req authRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		if !constantTimeEqual(req.Username, cfg.APIUsername) || !constantTimeEqual(req.Password, cfg.APIPassword) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := svc.Signer.Issue(adminPlayerID, adminTokenTTL)
		c.JSON(http.StatusOK, authResponse{Token: token})
	})
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
