package db

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

var DB *sqlx.DB

const (
	connectAttempts = 10
	connectInterval = 2 * time.Second
)

// Init opens the PostgreSQL connection and assigns it to DB. The database
// container often comes up after the server does, so connecting retries
// for a while before giving up.
func Init(databaseURL string) error {
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(connectInterval)
		}
		if DB, err = sqlx.Connect("postgres", databaseURL); err == nil {
			log.Info().Msg("connected to database")
			return nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready")
	}
	return fmt.Errorf("database unreachable after %d attempts: %w", connectAttempts, err)
}

// RunMigrations applies every "*.up.sql" file under dir in name order.
// Statements are idempotent enough to re-run on boot; the first failing
// file aborts the rest.
func RunMigrations(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		if err := applyMigration(file); err != nil {
			return err
		}
	}
	if len(files) > 0 {
		log.Info().Int("files", len(files)).Msg("migrations applied")
	}
	return nil
}

func applyMigration(file string) error {
	stmt, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filepath.Base(file), err)
	}
	if len(bytes.TrimSpace(stmt)) == 0 {
		return nil
	}
	if _, err := DB.Exec(string(stmt)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filepath.Base(file), err)
	}
	return nil
}
