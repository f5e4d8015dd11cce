package container

import (
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/go-graphql-blog/config"
	"github.com/oksasatya/go-graphql-blog/internal/domain/repository"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/events"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/go-graphql-blog/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/go-graphql-blog/internal/infrastructure/postgres"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/search"
	imagestore "github.com/oksasatya/go-graphql-blog/internal/infrastructure/storage"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	mongoDB     *mongo.Database
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager

	images    imagestore.ImageStore
	publisher events.Publisher
	indexer   search.PostIndexer

	reposOnce sync.Once
	users     repository.UserRepository
	posts     repository.PostRepository
)

func SetConfig(c *config.Config)        { cfg = c }
func GetConfig() *config.Config         { return cfg }
func SetLogger(l *logrus.Logger)        { logger = l }
func GetLogger() *logrus.Logger         { return logger }
func SetMongo(db *mongo.Database)       { mongoDB = db }
func SetPGPool(p *pgxpool.Pool)         { pgPool = p }
func SetRedis(r *redis.Client)          { redisClient = r }
func GetRedis() *redis.Client           { return redisClient }
func SetJWT(m *helpers.JWTManager)      { jwtManager = m }
func GetJWT() *helpers.JWTManager       { return jwtManager }
func SetImages(s imagestore.ImageStore) { images = s }
func GetImages() imagestore.ImageStore  { return images }
func SetPublisher(p events.Publisher)   { publisher = p }
func SetIndexer(i search.PostIndexer)   { indexer = i }

// GetPublisher never returns nil; without a broker events are dropped.
func GetPublisher() events.Publisher {
	if publisher != nil {
		return publisher
	}
	return events.Noop{}
}

// GetIndexer never returns nil; without a search cluster nothing is indexed.
func GetIndexer() search.PostIndexer {
	if indexer != nil {
		return indexer
	}
	return search.Noop{}
}

// Repositories picks the store backing the repositories: MongoDB when a
// database is set, then Postgres, otherwise an in-process store.
func Repositories() (repository.UserRepository, repository.PostRepository) {
	reposOnce.Do(func() {
		switch {
		case mongoDB != nil:
			users, posts = mongoinfra.NewUserRepository(mongoDB), mongoinfra.NewPostRepository(mongoDB)
		case pgPool != nil:
			users, posts = pginfra.NewUserRepository(pgPool), pginfra.NewPostRepository(pgPool)
		default:
			store := memory.NewStore()
			users, posts = store.Users(), store.Posts()
		}
	})
	return users, posts
}
