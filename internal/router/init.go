package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-graphql-blog/internal/application"
	"github.com/oksasatya/go-graphql-blog/internal/container"
	gql "github.com/oksasatya/go-graphql-blog/internal/interface/graphql"
	handlers "github.com/oksasatya/go-graphql-blog/internal/interface/http"
	"github.com/oksasatya/go-graphql-blog/internal/interface/middleware"
	"github.com/oksasatya/go-graphql-blog/internal/router/modules"
)

// Per-user budget for image uploads, on top of the global per-IP budget.
const uploadsPerMinute = 30

type Services struct {
	Auth  *application.AuthService
	Posts *application.PostService
	Users *application.UserService
}

// BuildServices wires the application services from the container.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	users, posts := container.Repositories()

	return Services{
		Auth:  application.NewAuthService(users, container.GetJWT(), cfg.BcryptCost, container.GetPublisher(), logger),
		Posts: application.NewPostService(posts, users, container.GetImages(), container.GetIndexer(), container.GetPublisher(), logger),
		Users: application.NewUserService(users, posts, logger),
	}
}

func allowFunc() middleware.AllowFunc {
	if container.GetConfig().Env == "development" {
		return middleware.AllowPrivateIP()
	}
	return nil
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) error {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	svc := BuildServices()

	schema, err := gql.NewSchema(gql.NewResolver(svc.Auth, svc.Posts, svc.Users))
	if err != nil {
		return err
	}

	perIP := middleware.RateLimit(middleware.NewLimiter(rdb, cfg.RateLimitPerMinute, time.Minute), middleware.KeyByIP(), allowFunc())
	r.Use(middleware.Authenticate(container.GetJWT()))

	r.AddRoot(modules.NewGraphQLModule(gql.NewHandler(schema, logger), perIP))

	images := &modules.ImageModule{
		Handler:  handlers.NewImageHandler(container.GetImages(), svc.Posts, logger),
		LocalDir: cfg.ImageDir,
		Limit: []gin.HandlerFunc{
			perIP,
			middleware.RateLimit(middleware.NewLimiter(rdb, uploadsPerMinute, time.Minute), middleware.KeyByUserID(), allowFunc()),
		},
	}
	if urls, ok := container.GetImages().(handlers.PublicURLer); ok {
		images.PublicURLs = urls
	}
	r.AddRoot(images)

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(middleware.RateLimit(middleware.NewLimiter(rdb, 120, time.Minute), middleware.KeyByIP(), nil)))
	}
	return nil
}
