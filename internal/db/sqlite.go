package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// busyTimeoutMs is how long a statement waits for the game's write lock.
const busyTimeoutMs = 5000

// CareerDB holds both handles over one connection pool to cp.db: sqlx for
// snapshot reads and gorm for typed writes and transactions.
type CareerDB struct {
	SQL  *sqlx.DB
	Gorm *gorm.DB
}

// OpenCareerDB opens the game's career database. The pool is limited to one
// connection so the daemon never competes with itself for SQLite's lock;
// callers must not issue sqlx queries while a gorm transaction is open.
func OpenCareerDB(path string) (*CareerDB, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=%d", path, busyTimeoutMs)

	var (
		sdb *sqlx.DB
		err error
	)
	for i := 0; i < 5; i++ {
		sdb, err = sqlx.Connect("sqlite3", dsn)
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open career db %s: %w", path, err)
	}

	sdb.SetMaxOpenConns(1)
	sdb.SetMaxIdleConns(1)

	gdb, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: "sqlite3",
		Conn:       sdb.DB,
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		sdb.Close()
		return nil, fmt.Errorf("failed to attach gorm to career db: %w", err)
	}

	return &CareerDB{SQL: sdb, Gorm: gdb}, nil
}

// Ping verifies the database is reachable.
func (c *CareerDB) Ping(ctx context.Context) error {
	return c.SQL.PingContext(ctx)
}

// Close closes the shared connection pool.
func (c *CareerDB) Close() error {
	if c == nil || c.SQL == nil {
		return nil
	}
	return c.SQL.Close()
}
