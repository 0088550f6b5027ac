// Package database opens the postgres pool and applies the embedded schema
// migrations.
package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Open connects and pings the database so misconfiguration fails at startup.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	return pool, nil
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrate runs the *_up.sql files in ascending order, or the *_down.sql files
// in descending order. steps > 0 limits how many files are applied.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, direction Direction, steps int) (int, error) {
	files, err := ListMigrations(migrations, direction)
	if err != nil {
		return 0, err
	}
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}
	for _, f := range files {
		b, err := fs.ReadFile(migrations, f)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", f, err)
		}
		start := time.Now()
		if _, err := pool.Exec(ctx, string(b)); err != nil {
			return 0, fmt.Errorf("exec %s: %w", f, err)
		}
		log.Info().Str("migration", f).Dur("took", time.Since(start)).Msg("migration applied")
	}
	return len(files), nil
}

// ListMigrations returns the migration file names for a direction in the order
// they have to run.
func ListMigrations(migrations fs.FS, direction Direction) ([]string, error) {
	suffix := "_" + string(direction) + ".sql"
	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	if direction == Down {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}
