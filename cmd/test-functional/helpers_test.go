package test_functional

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v4"
)

var (
	AppBaseURL url.URL
	DBConn     *pgx.Conn
)

func SetupHelpers(cfg *Config) error {
	AppBaseURL = url.URL{
		Scheme: "http",
		Host:   cfg.Host + ":" + cfg.Port,
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	conn, err := pgx.Connect(context.Background(), dsn)
	if err != nil {
		return err
	}
	DBConn = conn
	return nil
}

func TeardownHelpers() {
	if DBConn != nil {
		_ = DBConn.Close(context.Background())
	}
}

// FlushDB empties every table, children first so foreign keys don't get in
// the way.
func FlushDB() {
	ctx := context.Background()
	for _, table := range []string{"guest_book_entries", "photos", "guests", "weddings", "users"} {
		if _, err := DBConn.Exec(ctx, "DELETE FROM "+table); err != nil {
			panic(err)
		}
	}
}
