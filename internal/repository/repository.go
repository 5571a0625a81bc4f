package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// Backend names a store implementation, chosen by connection string scheme.
type Backend string

const (
	BackendMongo    Backend = "mongodb"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

// BackendFor maps a connection string to its Backend.
func BackendFor(connString string) (Backend, error) {
	scheme, _, ok := strings.Cut(connString, "://")
	if !ok {
		return "", errors.New("store url has no scheme")
	}
	switch scheme {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "memory":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unsupported store scheme %q", scheme)
	}
}

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewMongoClient connects to MongoDB and verifies the primary is reachable.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// Store bundles the contact repository with the lifecycle of its connection.
type Store struct {
	Backend  Backend
	Contacts ContactRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping reports whether the underlying connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the pooled connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the store named by connString. database is only used by
// MongoDB, and only when the URI itself does not name one.
func Open(ctx context.Context, connString, database string) (*Store, error) {
	backend, err := BackendFor(connString)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendMongo:
		client, err := NewMongoClient(ctx, connString)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		repo := NewMongoContactRepository(client.Database(mongoDatabase(connString, database)))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Backend:  backend,
			Contacts: repo,
			ping:     func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			close:    client.Disconnect,
		}, nil

	case BackendPostgres:
		pool, err := NewPool(ctx, connString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Store{
			Backend:  backend,
			Contacts: NewPgContactRepository(pool),
			ping:     pool.Ping,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	default:
		repo := NewMemoryContactRepository()
		return &Store{Backend: backend, Contacts: repo, ping: repo.Ping}, nil
	}
}

// mongoDatabase prefers the database named in the URI path.
func mongoDatabase(uri, fallback string) string {
	cs, err := connstring.Parse(uri)
	if err != nil || cs.Database == "" {
		return fallback
	}
	return cs.Database
}
