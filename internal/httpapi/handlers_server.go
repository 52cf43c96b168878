package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// serviceKind mirrors original_source/servers/http/src/routes/server.rs's
// ServiceType enum.
type serviceKind string

const (
	serviceHTTP         serviceKind = "HTTP"
	serviceBlaze        serviceKind = "Blaze"
	serviceDirectBuffer serviceKind = "DirectBuffer"
)

type serviceDetails struct {
	Name string      `json:"name"`
	Port uint16      `json:"port"`
	Type serviceKind `json:"type"`
}

type serverDetails struct {
	Version  string           `json:"version"`
	Services []serviceDetails `json:"services"`
}

// registerServerRoutes wires GET /api/server (spec.md §6, ungated by
// cfg.APIEnabled — original_source's server::configure runs unconditionally).
func registerServerRoutes(r gin.IRouter, cfg Config) {
	r.GET("/api/server", func(c *gin.Context) {
		c.JSON(http.StatusOK, serverDetails{
			Version: cfg.Version,
			Services: []serviceDetails{
				{Name: "Main Blaze Server", Type: serviceBlaze, Port: cfg.MainPort},
				{Name: "Redirector", Type: serviceBlaze, Port: cfg.RedirectorPort},
				{Name: "HTTP Server", Type: serviceHTTP, Port: cfg.HTTPPort},
			},
		})
	})
}
