package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gocraft/dbr/v2"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PoolOptions sizes the connection pool. The store is used by one process
// issuing a few queries per user action, so the defaults are small.
type PoolOptions struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

var DefaultPoolOptions = PoolOptions{
	MaxOpen:     4,
	MaxIdle:     2,
	MaxLifetime: 10 * time.Minute,
}

// Store persists filter criteria and saved offers.
type Store struct {
	conn   *dbr.Connection
	sess   *dbr.Session
	logger *zap.Logger
}

func New(dsn string, logger *zap.Logger) (*Store, error) {
	return NewWithPool(dsn, DefaultPoolOptions, logger)
}

func NewWithPool(dsn string, pool PoolOptions, logger *zap.Logger) (*Store, error) {
	conn, err := dbr.Open("postgres", dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	conn.SetMaxOpenConns(pool.MaxOpen)
	conn.SetMaxIdleConns(pool.MaxIdle)
	conn.SetConnMaxLifetime(pool.MaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("postgres connected", zap.Int("max_open_conns", pool.MaxOpen))

	return newStore(conn, logger), nil
}

func newStore(conn *dbr.Connection, logger *zap.Logger) *Store {
	return &Store{
		conn:   conn,
		sess:   conn.NewSession(nil),
		logger: logger,
	}
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// beginTx opens a read-committed transaction; callers defer
// RollbackUnlessCommitted.
func (s *Store) beginTx(ctx context.Context) (*dbr.Tx, error) {
	return s.sess.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}
