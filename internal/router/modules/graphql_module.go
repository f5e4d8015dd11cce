package modules

import (
	"github.com/gin-gonic/gin"

	gql "github.com/oksasatya/go-graphql-blog/internal/interface/graphql"
)

// GraphQLModule serves the API at /graphql.
// POST takes a JSON body {query, operationName, variables}; GET takes the same as query parameters.
type GraphQLModule struct {
	Handler *gql.Handler
	Limit   []gin.HandlerFunc
}

func NewGraphQLModule(h *gql.Handler, limit ...gin.HandlerFunc) *GraphQLModule {
	return &GraphQLModule{Handler: h, Limit: limit}
}

func (m *GraphQLModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/graphql", m.Limit...)
	g.POST("", m.Handler.Serve)
	g.GET("", m.Handler.Serve)
}
