// Package storage resolves a connection string into backend-specific
// connection options. Resolution is lazy: no connection is opened here.
package storage

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Backend identifies the storage backend family.
type Backend string

const (
	// BackendSQLite is the embedded file-based backend.
	BackendSQLite Backend = "sqlite"
	// BackendPostgres is the networked relational backend.
	BackendPostgres Backend = "postgres"
)

// Connection parameters per backend. The postgres numbers assume a
// serverless database that may need a cold-start wake-up: a small base
// pool with a little overflow, recycled every few minutes, and a connect
// timeout measured in tens of seconds rather than the sub-second default.
const (
	pgPoolSize        = 2
	pgMaxOverflow     = 3
	pgConnMaxLifetime = 5 * time.Minute
	pgConnectTimeout  = 60 * time.Second
)

// Options holds the resolved backend discriminator and connection
// parameters. Immutable after Resolve; shared read-only across workers.
type Options struct {
	Backend         Backend
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// Resolve inspects the connection string and derives backend-specific
// options. An empty string selects the local SQLite default. A malformed
// or unsupported connection string is a startup-fatal error; there is
// never a silent fallback to a different backend.
func Resolve(databaseURL string) (*Options, error) {
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		databaseURL = "sqlite:///./users.db"
	}

	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return resolveSQLite(databaseURL)
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return resolvePostgres(databaseURL)
	case strings.Contains(databaseURL, "://"):
		return nil, fmt.Errorf("unsupported database scheme in %q", databaseURL)
	default:
		// A bare path is treated as a SQLite file
		return sqliteOptions(databaseURL)
	}
}

// resolveSQLite extracts the file path from sqlite:///<path> URL forms.
func resolveSQLite(databaseURL string) (*Options, error) {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	// sqlite:///./users.db carries a relative path, sqlite:////var/db/users.db
	// an absolute one; either way the first slash belongs to the URL form.
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil, fmt.Errorf("sqlite connection string %q has no database path", databaseURL)
	}
	return sqliteOptions(path)
}

func sqliteOptions(path string) (*Options, error) {
	// A single shared connection stands in for the original shared file
	// handle: the driver is goroutine-safe, and capping the pool at one
	// keeps concurrent writers from tripping over the file lock.
	return &Options{
		Backend:      BackendSQLite,
		DSN:          path,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, nil
}

func resolvePostgres(databaseURL string) (*Options, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("malformed postgres connection string: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("postgres connection string %q has no host", databaseURL)
	}

	// Honor an explicit connect_timeout; otherwise allow for cold starts.
	q := u.Query()
	if q.Get("connect_timeout") == "" {
		q.Set("connect_timeout", fmt.Sprintf("%d", int(pgConnectTimeout.Seconds())))
		u.RawQuery = q.Encode()
	}

	return &Options{
		Backend:         BackendPostgres,
		DSN:             u.String(),
		MaxOpenConns:    pgPoolSize + pgMaxOverflow,
		MaxIdleConns:    pgPoolSize,
		ConnMaxLifetime: pgConnMaxLifetime,
		ConnectTimeout:  pgConnectTimeout,
	}, nil
}

// Dialector returns the GORM dialector for the resolved backend.
// Constructing a dialector does not open a connection.
func (o *Options) Dialector() gorm.Dialector {
	if o.Backend == BackendPostgres {
		return pgdriver.Open(o.DSN)
	}
	return sqlite.Open(o.DSN)
}
