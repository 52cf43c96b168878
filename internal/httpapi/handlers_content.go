package httpapi

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed content
var contentFS embed.FS

// registerContentRoutes wires GET /content/* (spec.md §6): embedded
// static assets such as coalesced.json/*.tlk overrides, served the way
// the teacher serves its static bundles but rooted at content/ instead
// of content's own embed prefix.
func registerContentRoutes(r gin.IRouter) {
	sub, err := fs.Sub(contentFS, "content")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(sub))
	r.GET("/content/*filepath", gin.WrapH(http.StripPrefix("/content/", fileServer)))
}
