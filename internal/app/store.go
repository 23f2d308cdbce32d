package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autolog/internal/config"
	"autolog/internal/repositories"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/gorm"
)

// Store bundles the repositories of one backing store.
type Store struct {
	Users    repositories.UserRepository
	Cars     repositories.CarRepository
	Notes    repositories.NoteRepository
	Counters repositories.CounterRepository

	migrate func(ctx context.Context) error
	closers []func(ctx context.Context) error
}

// NewGORMStore wraps an open GORM database.
func NewGORMStore(db *gorm.DB) *Store {
	return &Store{
		Users:    repositories.NewGORMUserRepository(db),
		Cars:     repositories.NewGORMCarRepository(db),
		Notes:    repositories.NewGORMNoteRepository(db),
		Counters: repositories.NewGORMCounterRepository(db),
		migrate: func(context.Context) error {
			return repositories.AutoMigrate(db)
		},
		closers: []func(context.Context) error{func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}},
	}
}

// NewMemoryStore returns a store that lives in process memory.
func NewMemoryStore() *Store {
	return &Store{
		Users:    repositories.NewMockUserRepository(),
		Cars:     repositories.NewMockCarRepository(),
		Notes:    repositories.NewMockNoteRepository(),
		Counters: repositories.NewMockCounterRepository(),
	}
}

// NewMongoStore wraps a MongoDB database.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:    repositories.NewMongoUserRepository(db),
		Cars:     repositories.NewMongoCarRepository(db),
		Notes:    repositories.NewMongoNoteRepository(db),
		Counters: repositories.NewMongoCounterRepository(db),
		migrate: func(ctx context.Context) error {
			return repositories.EnsureMongoIndexes(ctx, db)
		},
	}
}

// OpenStore connects the store selected by cfg.StoreDriver and, for the
// redis sequence backend, swaps in Redis counters.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Store, error) {
	var st *Store
	switch cfg.StoreDriver {
	case "postgres", "sqlite":
		db, err := repositories.OpenGORM(cfg.StoreDriver, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, err
		}
		st = NewGORMStore(db)
	case "mongo":
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		st = NewMongoStore(client.Database(cfg.MongoDatabase))
		st.closers = append(st.closers, client.Disconnect)
	case "memory":
		st = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.SequenceBackend == "redis" {
		client, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			_ = st.Close(ctx)
			return nil, err
		}
		st.Counters = repositories.NewRedisCounterRepository(client)
		st.closers = append(st.closers, func(context.Context) error { return client.Close() })
	}

	logger.Info("store opened", "driver", cfg.StoreDriver, "sequences", cfg.SequenceBackend)
	return st, nil
}

func openRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DialTimeout = 5 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Migrate creates tables or indexes. It is a no-op for the memory store.
func (s *Store) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

// Close releases every connection the store holds.
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
