package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/niksmo/shopsphere/config"
	"github.com/spf13/pflag"
)

const (
	storagePathFlag   = "storage-path"
	migrationPathFlag = "migrations-path"
	configFlag        = "config"
	downFlag          = "down"
)

type flags struct {
	storagePath    string
	migrationsPath string
	configPath     string
	down           bool
}

func main() {
	f := getFlagsValues()
	storagePath := resolveStoragePath(f)
	validateFlags(storagePath, f.migrationsPath)
	makeMigrations(storagePath, f.migrationsPath, f.down)
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() flags {
	var f flags
	pflag.StringVarP(&f.storagePath, storagePathFlag, "s", "", "postgres dsn, overrides the config")
	pflag.StringVarP(&f.migrationsPath, migrationPathFlag, "m", "migrations", "migrations directory")
	pflag.StringVarP(&f.configPath, configFlag, "c", "", "config file with storage.sql_db")
	pflag.BoolVar(&f.down, downFlag, false, "roll back every migration")
	pflag.Parse()
	return f
}

// resolveStoragePath prefers the flag, then the config file.
func resolveStoragePath(f flags) string {
	if f.storagePath != "" || f.configPath == "" {
		return f.storagePath
	}
	cfg, err := config.LoadFile(f.configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		fallDown()
	}
	return cfg.Storage.SQLDB
}

func validateFlags(storagePath, migrationsPath string) {
	var errs []error

	if storagePath == "" {
		errs = append(errs, fmt.Errorf("--%s or --%s flag: required", storagePathFlag, configFlag))
	}

	if migrationsPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationPathFlag))
	}

	if len(errs) != 0 {
		slog.Error("too few args", "err", errors.Join(errs...))
		fallDown()
	}
}

// databaseURL rewrites a postgres dsn for the pgx5 migrate driver.
func databaseURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return "pgx5://" + dsn
}

func makeMigrations(storagePath, migrationsPath string, down bool) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		databaseURL(storagePath),
	)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}

	m.Log = NewMigrationLogger()

	apply, direction := m.Up, "up"
	if down {
		apply, direction = m.Down, "down"
	}

	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "direction", direction, "err", err)
		fallDown()
	}
	m.Log.Printf("migrations applied: %s", direction)
}

func fallDown() {
	os.Exit(2)
}
