// Package db opens short-lived PostgreSQL connections for dashboard queries.
package db

import (
	"context"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Conn is the subset of *pgx.Conn used by the fetch layer. It is satisfied
// by pgxmock.PgxConnIface in tests.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// Connector opens a new connection. Every call dials the database; callers
// own the returned Conn and must close it.
type Connector func(ctx context.Context) (Conn, error)

// Credentials identifies the database to connect to. When URL is set it takes
// precedence over the individual fields.
type Credentials struct {
	Name     string
	User     string
	Password string
	Host     string
	Port     int
	SSLMode  string
	URL      string
}

// Validate reports a configuration error when the credentials cannot
// describe a database.
func (c Credentials) Validate() error {
	if c.URL != "" {
		return nil
	}
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.User == "" {
		missing = append(missing, "user")
	}
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if len(missing) > 0 {
		return eris.Errorf("db: missing credentials: %v", missing)
	}
	if c.Port < 0 || c.Port > 65535 {
		return eris.Errorf("db: invalid port %d", c.Port)
	}
	return nil
}

// ConnString renders the credentials as a postgres:// URL.
func (c Credentials) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
		Path:   "/" + c.Name,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

// NewConnector parses the credentials once and returns a Connector that
// dials a fresh connection on every call.
func NewConnector(creds Credentials) (Connector, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	cfg, err := pgx.ParseConfig(creds.ConnString())
	if err != nil {
		return nil, eris.Wrap(err, "db: parse config")
	}
	return func(ctx context.Context) (Conn, error) {
		conn, err := pgx.ConnectConfig(ctx, cfg.Copy())
		if err != nil {
			return nil, err
		}
		return conn, nil
	}, nil
}
