package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-graphql-blog/internal/interface/http"
	"github.com/oksasatya/go-graphql-blog/internal/interface/middleware"
)

// ImageModule wires the post image upload and image serving.
// Protected: PUT /post-image
// Public: GET /images/* from LocalDir, or redirected to PublicURLs when set
type ImageModule struct {
	Handler    *handlers.ImageHandler
	LocalDir   string
	PublicURLs handlers.PublicURLer
	Limit      []gin.HandlerFunc
}

func (m *ImageModule) Register(rg *gin.RouterGroup) {
	upload := append([]gin.HandlerFunc{middleware.RequireAuth(handlers.NotAuthenticated)}, m.Limit...)
	rg.PUT("/post-image", append(upload, m.Handler.Upload)...)

	if m.PublicURLs != nil {
		rg.GET("/images/*filepath", handlers.Redirect(m.PublicURLs))
		return
	}
	rg.Static("/images", m.LocalDir)
}
