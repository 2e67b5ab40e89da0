package sqliteutil

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config points at either a local sqlite file or a remote libsql database,
// `Url` takes precedence when both are set.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// Open opens the database and applies `schema`, which is expected to be idempotent
// (CREATE ... IF NOT EXISTS).
func (config Config) Open(schema string) (*sql.DB, error) {
	db, err := config.open()
	if err != nil {
		return nil, err
	}
	if schema != "" {
		_, err = db.Exec(schema)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return db, nil
}

func (config Config) open() (*sql.DB, error) {
	if config.Url != "" {
		values := url.Values{}
		if config.AuthToken != "" {
			values.Add("authToken", config.AuthToken)
		}
		return sql.Open("libsql", config.Url+"?"+values.Encode())
	}

	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	if config.File != ":memory:" {
		err := os.MkdirAll(filepath.Dir(config.File), 0777)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	if config.File != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
