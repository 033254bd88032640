package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPgxPool(ctx context.Context, url string) (DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// HasEarthDistance reports whether the earthdistance extension is
// installed, i.e. whether indexed geo-proximity queries are available.
// The nearby search falls back to an in-process distance scan when not.
func HasEarthDistance(ctx context.Context, db DB) bool {
	var n int
	err := db.QueryRow(ctx,
		`SELECT 1 FROM pg_extension WHERE extname = 'earthdistance'`,
	).Scan(&n)
	return err == nil && n == 1
}
