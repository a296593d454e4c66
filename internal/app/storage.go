package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/iamvkosarev/fintrack/config"
	in_memory "github.com/iamvkosarev/fintrack/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/fintrack/internal/storage/key-value"
	"github.com/iamvkosarev/fintrack/internal/storage/sqlite"
	"github.com/iamvkosarev/fintrack/internal/usecase"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type storages struct {
	sessions     usecase.SessionStorage
	chats        usecase.ChatStorage
	transactions usecase.TransactionStorage

	rdb *redis.Client
	db  *sqlx.DB
}

// newStorages opens only the backends the config selects.
func newStorages(ctx context.Context, cfg *config.Config) (*storages, error) {
	s := &storages{}
	needRedis := cfg.Storage.Backend == config.StorageBackendRedis ||
		cfg.Storage.TransactionsBackend == config.StorageBackendRedis
	if needRedis {
		s.rdb = redis.NewClient(
			&redis.Options{
				Addr: cfg.Redis.Endpoint,
			},
		)
		if err := s.rdb.Ping(ctx).Err(); err != nil {
			return nil, errors.Join(
				fmt.Errorf("failed to connect to redis %s: %w", cfg.Redis.Endpoint, err),
				s.Close(),
			)
		}
	}

	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		s.sessions = in_memory.NewSessionStorage()
		s.chats = in_memory.NewChatStorage()
	case config.StorageBackendRedis:
		s.sessions = key_value.NewSessionStorage(s.rdb, cfg.Redis.SessionTTL)
		s.chats = key_value.NewChatStorage(s.rdb, cfg.Redis.SessionTTL)
	default:
		return nil, errors.Join(
			fmt.Errorf("%w: %q", config.ErrUnknownStorageBackend, cfg.Storage.Backend),
			s.Close(),
		)
	}

	switch cfg.Storage.TransactionsBackend {
	case config.StorageBackendMemory:
		s.transactions = in_memory.NewTransactionStorage()
	case config.StorageBackendRedis:
		s.transactions = key_value.NewTransactionStorage(s.rdb)
	case config.StorageBackendSQLite:
		db, err := sqlite.NewSqliteDB(cfg.SQLite.Path)
		if err != nil {
			return nil, errors.Join(err, s.Close())
		}
		s.db = db
		transactions, err := sqlite.NewTransactionStorage(db)
		if err != nil {
			return nil, errors.Join(err, s.Close())
		}
		s.transactions = transactions
	default:
		return nil, errors.Join(
			fmt.Errorf("%w: %q", config.ErrUnknownStorageBackend, cfg.Storage.TransactionsBackend),
			s.Close(),
		)
	}
	return s, nil
}

func (s *storages) Close() error {
	var errs []error
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close sqlite db: %w", err))
		}
	}
	return errors.Join(errs...)
}
