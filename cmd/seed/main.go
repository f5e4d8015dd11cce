package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-graphql-blog/config"
	"github.com/oksasatya/go-graphql-blog/internal/application"
	"github.com/oksasatya/go-graphql-blog/internal/container"
	"github.com/oksasatya/go-graphql-blog/internal/domain/apperror"
	"github.com/oksasatya/go-graphql-blog/internal/domain/identity"
	mongoinfra "github.com/oksasatya/go-graphql-blog/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/go-graphql-blog/internal/infrastructure/postgres"
	"github.com/oksasatya/go-graphql-blog/internal/router"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

var demoPosts = []application.PostInput{
	{Title: "Hello, blog", Content: "The first post on a fresh install.", ImageURL: "images/seed-hello.png"},
	{Title: "Writing with GraphQL", Content: "createPost takes a postInput with title, content and imageUrl.", ImageURL: "images/seed-graphql.png"},
	{Title: "Paging through the feed", Content: "getPosts returns five posts per page, newest first.", ImageURL: "images/seed-paging.png"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL))

	switch cfg.StoreDriver {
	case "mongo":
		client, err := mongoinfra.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDatabase)
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("failed to ensure indexes: %v", err)
		}
		container.SetMongo(db)
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
	default:
		log.Fatalf("nothing to seed for STORE_DRIVER=%s", cfg.StoreDriver)
	}

	svc := router.BuildServices()

	email := "demo@example.com"
	password := "password123"
	name := "demoUser"

	_, err := svc.Auth.Register(ctx, application.UserInput{Email: email, Name: name, Password: password})
	if err != nil && apperror.KindOf(err) != apperror.KindConflict {
		log.Fatalf("failed to seed user: %v", err)
	}
	auth, err := svc.Auth.Login(ctx, email, password)
	if err != nil {
		log.Fatalf("failed to log in seeded user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", auth.UserID, email, name, password)

	asUser := identity.WithIdentity(ctx, identity.Authenticated(auth.UserID))
	me, err := svc.Users.Me(asUser)
	if err != nil {
		log.Fatalf("failed to load seeded user: %v", err)
	}
	if len(me.PostIDs) > 0 {
		fmt.Printf("user already has %d posts; skipping\n", len(me.PostIDs))
		return
	}
	for _, in := range demoPosts {
		p, err := svc.Posts.Create(asUser, in)
		if err != nil {
			log.Fatalf("failed to seed post %q: %v", in.Title, err)
		}
		fmt.Printf("seeded post: id=%s title=%q\n", p.ID, p.Title)
	}
	fmt.Printf("token (valid %s): %s\n", cfg.JWTTTL, auth.Token)
}
