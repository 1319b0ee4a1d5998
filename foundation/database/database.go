// Package database opens the postgres connection shared by the poller,
// aggregator, api, loader and setup binaries, and wraps the sqlx named query
// boilerplate the summary read queries need.
package database

import (
	_ "github.com/jackc/pgx/stdlib"
	"github.com/jmoiron/sqlx"
	"net/url"
)

// Config is the required properties to use the database.
type Config struct {
	User       string
	Password   string
	Host       string
	Name       string
	DisableTLS bool
}

// Open connects to postgres through the pgx stdlib driver.
// The session timezone is pinned to utc so service dates and poll timestamps
// compare consistently across every binary writing to the same tables.
func Open(cfg Config) (*sqlx.DB, error) {
	sslMode := "require"
	if cfg.DisableTLS {
		sslMode = "disable"
	}

	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host,
		Path:     cfg.Name,
		RawQuery: q.Encode(),
	}
	return sqlx.Connect("pgx", u.String())
}

// NamedQueryRowsFromMap executes statementString with named parameters taken
// from sqlArgMap and returns the resulting rows.
// Slice values expand into "in" clause argument lists, which is how the
// summary queries take an optional set of route ids.
func NamedQueryRowsFromMap(
	statementString string,
	db *sqlx.DB,
	sqlArgMap map[string]interface{}) (*sqlx.Rows, error) {

	query, args, err := sqlx.Named(statementString, sqlArgMap)
	if err != nil {
		return nil, err
	}
	query, args, err = sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	return db.Queryx(db.Rebind(query), args...)
}
