package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

type DebugModule struct {
	Limit []gin.HandlerFunc
}

func NewDebugModule(limit ...gin.HandlerFunc) *DebugModule { return &DebugModule{Limit: limit} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoint (expvar)
	handlers := append(append([]gin.HandlerFunc{}, m.Limit...), gin.WrapH(expvar.Handler()))
	rg.GET("/debug/vars", handlers...)
}
