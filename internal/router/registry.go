package router

import "github.com/gin-gonic/gin"

// Registry collects modules and mounts them once global middleware is known.
// Root modules serve public paths such as /graphql; API modules live under /api.
type Registry struct {
	Engine      *gin.Engine
	middlewares []gin.HandlerFunc
	root        []Module
	api         []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// AddRoot registers mod at the engine root.
func (r *Registry) AddRoot(mod Module) {
	r.root = append(r.root, mod)
}

// Add registers mod under /api.
func (r *Registry) Add(mod Module) {
	r.api = append(r.api, mod)
}

// RegisterAll applies the registry middleware and mounts every module. Groups
// copy their handler chain when created, so /api is built after Use.
func (r *Registry) RegisterAll() {
	root := r.Engine.Group("/")
	if len(r.middlewares) > 0 {
		root.Use(r.middlewares...)
	}
	for _, m := range r.root {
		m.Register(root)
	}
	api := root.Group("/api")
	for _, m := range r.api {
		m.Register(api)
	}
}
