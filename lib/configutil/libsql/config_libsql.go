package configlibsql

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Struct struct {
	// path of a local sqlite database file
	File string `json:"file"`
	// remote libsql url, takes precedence over File when set
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// opens the configured database and initializes it with the given schema.
func (config Struct) OpenDB(schema string) (*sql.DB, error) {
	db, err := config.open()
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func (config Struct) open() (*sql.DB, error) {
	if config.Url != "" {
		url := config.Url
		if config.AuthToken != "" {
			url = fmt.Sprintf("%s?authToken=%s", url, config.AuthToken)
		}
		return sql.Open("libsql", url)
	}

	if config.File == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}
	_, statErr := os.Stat(config.File)
	if os.IsNotExist(statErr) {
		f, err := os.Create(config.File)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	return db, nil
}
