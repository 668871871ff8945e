// Command api serves the blog REST API.
//
//	@title						Blog API
//	@version					1.0
//	@description				Posts and comments with token authentication.
//	@BasePath					/
//	@securityDefinitions.apikey	TokenAuth
//	@in							header
//	@name						Authorization
//	@description				Use the form: Token <key>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/api"
	"github.com/inkpost/blog-api/internal/api/handler"
	"github.com/inkpost/blog-api/internal/core/ports"
	"github.com/inkpost/blog-api/internal/core/service"
	"github.com/inkpost/blog-api/internal/infrastructure/db/memory"
	"github.com/inkpost/blog-api/internal/infrastructure/db/mongo"
	"github.com/inkpost/blog-api/internal/infrastructure/db/postgres"
	"github.com/inkpost/blog-api/internal/infrastructure/db/redis"
	httpserver "github.com/inkpost/blog-api/internal/infrastructure/http"
	"github.com/inkpost/blog-api/internal/pkg/config"
	"github.com/inkpost/blog-api/pkg/logger"
)

const serviceName = "blog-api"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
		Version: version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	authOpts := []service.AuthOption{service.WithHashCost(cfg.BcryptCost)}
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		authOpts = append(authOpts, service.WithTokenCache(redis.NewTokenCache(client), cfg.TokenCacheTTL))
		store.readiness["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token cache enabled")
	}

	e := api.NewRouter(api.Dependencies{
		AuthService:    service.NewAuthService(store.users, store.tokens, log, authOpts...),
		PostService:    service.NewPostService(store.posts, log),
		CommentService: service.NewCommentService(store.comments, store.posts, log),
		Readiness:      store.readiness,
		Registerer:     prometheus.DefaultRegisterer,
		Gatherer:       prometheus.DefaultGatherer,
		Logger:         log,
	})

	return httpserver.NewServer(e, ":"+cfg.Port, cfg.ShutdownTimeout, log).Run(ctx)
}

// repositories is the set of ports backed by the configured driver.
type repositories struct {
	users    ports.UserRepository
	tokens   ports.TokenRepository
	posts    ports.PostRepository
	comments ports.CommentRepository

	readiness map[string]handler.Pinger
	close     func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  serviceName,
		})
		if err != nil {
			return nil, err
		}
		s := mongo.NewStore(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo store")
		return &repositories{
			users: s.Users(), tokens: s.Tokens(), posts: s.Posts(), comments: s.Comments(),
			readiness: map[string]handler.Pinger{"mongo": s},
			close:     func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{
			DSN:      cfg.Postgres.DSN,
			MaxConns: cfg.Postgres.MaxConns,
		})
		if err != nil {
			return nil, err
		}
		s := postgres.NewStore(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Int32("max_conns", cfg.Postgres.MaxConns).Msg("using postgres store")
		return &repositories{
			users: s.Users(), tokens: s.Tokens(), posts: s.Posts(), comments: s.Comments(),
			readiness: map[string]handler.Pinger{"postgres": s},
			close:     pool.Close,
		}, nil

	case config.DriverMemory:
		s := memory.New()
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return &repositories{
			users: s.Users(), tokens: s.Tokens(), posts: s.Posts(), comments: s.Comments(),
			readiness: map[string]handler.Pinger{},
			close:     func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
