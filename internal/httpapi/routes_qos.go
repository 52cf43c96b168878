package httpapi

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"
)

// qosResponse matches original_source/servers/http/src/routes/qos.rs's
// hand-formatted XML body verbatim (tag names and nesting), since the
// ME3 client parses this by field name.
type qosResponse struct {
	XMLName   xml.Name `xml:"qos"`
	NumProbes int      `xml:"numprobes"`
	QosPort   uint16   `xml:"qosport"`
	ProbeSize int      `xml:"probesize"`
	QosIP     string   `xml:"qosip"`
	RequestID int      `xml:"requestid"`
	ReqSecret int      `xml:"reqsecret"`
}

// registerQosRoutes wires GET /qos/qos?prpt=... (spec.md §6). The client
// supplies its own probe port via the "prpt" query param but the
// response always advertises the fixed main Blaze port, matching
// qos.rs's `env::from_env(env::MAIN_PORT)`.
func registerQosRoutes(r gin.IRouter, cfg Config) {
	r.GET("/qos/qos", func(c *gin.Context) {
		c.XML(http.StatusOK, qosResponse{
			NumProbes: 0,
			QosPort:   cfg.MainPort,
			ProbeSize: 0,
			QosIP:     clientIP(c),
			RequestID: 1,
			ReqSecret: 0,
		})
	})
}

func clientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "127.0.0.1"
}
