package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"photo-quiz-service/internal/app"
	"photo-quiz-service/internal/config"
	"photo-quiz-service/internal/infra/jsonfile"
	"photo-quiz-service/internal/infra/memory"
	"photo-quiz-service/internal/infra/postgres"
	redisstore "photo-quiz-service/internal/infra/redis"
)

// openStore builds the question store selected by cfg.Store.Backend.
// The returned close function releases any connections.
func openStore(ctx context.Context, cfg config.Config) (app.QuestionStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Printf("using redis question store at %s", cfg.Redis.Addr)
		return redisstore.NewQuestionStore(client, cfg.Store.Key), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Printf("using postgres question store (bank %q)", cfg.Store.Bank)
		return postgres.NewQuestionStore(pool, cfg.Store.Bank), pool.Close, nil

	case config.BackendMemory:
		log.Printf("using in-memory question store, changes are lost on exit")
		return memory.NewQuestionStore(), func() {}, nil

	default:
		log.Printf("using file question store at %s", cfg.Store.Path)
		return jsonfile.NewQuestionStore(cfg.Store.Path), func() {}, nil
	}
}
