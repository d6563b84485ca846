package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/hr-admin/internal/platform/logging"
)

type migrateOptions struct {
	dbURL                 string
	dir                   string
	disablePreparedBinary bool
}

func newRootCmd(logger *logging.Logger) *cobra.Command {
	opts := &migrateOptions{}

	root := &cobra.Command{
		Use:           "migration",
		Short:         "Apply and inspect database schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbURL, "db-url", os.Getenv("DB_URL"), "postgres connection url (DB_URL)")
	root.PersistentFlags().StringVar(&opts.dir, "dir", "", "migrations directory (MIGRATIONS_DIR, ./db/migrations)")
	root.PersistentFlags().BoolVar(&opts.disablePreparedBinary, "disable-prepared-binary-result", envBool("DB_DISABLE_PREPARED_BINARY_RESULT"), "append disable_prepared_binary_result=yes to the url")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(opts, logger, func(m *migrate.Migrate) error {
					if err := ignoreNoChange(logger, m.Up()); err != nil {
						return err
					}
					logger.Info("migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down [n]",
			Short: "Roll back n migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps, err := parseSteps(args)
				if err != nil {
					return err
				}
				return withMigrator(opts, logger, func(m *migrate.Migrate) error {
					if err := ignoreNoChange(logger, m.Steps(-steps)); err != nil {
						return err
					}
					logger.Info("migrations rolled back", "steps", steps)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(opts, logger, func(m *migrate.Migrate) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(cmd.OutOrStdout(), "version: none")
						fmt.Fprintln(cmd.OutOrStdout(), "dirty: false")
						return nil
					}
					if err != nil {
						return fmt.Errorf("read version: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version: %d\n", version)
					fmt.Fprintf(cmd.OutOrStdout(), "dirty: %t\n", dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := parseVersion(args[0])
				if err != nil {
					return err
				}
				return withMigrator(opts, logger, func(m *migrate.Migrate) error {
					if err := m.Force(version); err != nil {
						return fmt.Errorf("force version %d: %w", version, err)
					}
					logger.Info("schema version forced", "version", version)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:     "goto <version>",
			Aliases: []string{"migrate"},
			Short:   "Migrate up or down to the given version",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				target, err := parseTarget(args[0])
				if err != nil {
					return err
				}
				return withMigrator(opts, logger, func(m *migrate.Migrate) error {
					if err := ignoreNoChange(logger, m.Migrate(target)); err != nil {
						return err
					}
					logger.Info("migrated", "version", target)
					return nil
				})
			},
		},
	)

	return root
}

func withMigrator(opts *migrateOptions, logger *logging.Logger, fn func(*migrate.Migrate) error) error {
	dbURL := strings.TrimSpace(opts.dbURL)
	if dbURL == "" {
		return errors.New("DB_URL is required")
	}
	if opts.disablePreparedBinary {
		dbURL = withPreparedBinaryDisabled(dbURL)
	}

	dir, err := resolveMigrationsDir(opts.dir)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), dbURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("close migration source", "error", srcErr)
		}
		if dbErr != nil {
			logger.Warn("close migration db", "error", dbErr)
		}
	}()

	return fn(m)
}

func ignoreNoChange(logger *logging.Logger, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}

	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := []string{
		strings.TrimSpace(explicit),
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked --dir, MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}

func withPreparedBinaryDisabled(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func envBool(key string) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
