package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/contactform/backend/internal/config"
	"github.com/contactform/backend/internal/logging"
	"github.com/contactform/backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Fatal("migrate failed", "error", err)
	}
}

func newRootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:   "migrate",
		Short: "差分マイグレーションを適用 (PostgreSQL)",
		Long: `Applies pending SQL migrations to the PostgreSQL store named by
DATABASE_URL. For a MongoDB store use the "indexes" subcommand.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(false)
			if dir == "" {
				dir = findMigrationDir()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool) error {
				return runIncremental(ctx, pool, dir)
			})
		},
	}
	root.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory (default: ./migrations or ../migrations)")

	root.AddCommand(
		&cobra.Command{
			Use:   "reset",
			Short: "全テーブルを DROP し、集約スキーマで再作成",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool) error {
					if err := runDropAll(ctx, pool, dir); err != nil {
						return err
					}
					return runConsolidated(ctx, pool, dir)
				})
			},
		},
		&cobra.Command{
			Use:   "fresh",
			Short: "全テーブルを DROP し、全マイグレーションを順番に適用",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool) error {
					if err := runDropAll(ctx, pool, dir); err != nil {
						return err
					}
					return runIncremental(ctx, pool, dir)
				})
			},
		},
		&cobra.Command{
			Use:   "indexes",
			Short: "MongoDB の contacts インデックスを作成",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMongoIndexes(cmd.Context())
			},
		},
	)
	return root
}

func loadStoreURL(want repository.Backend) (string, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", nil, err
	}
	backend, err := repository.BackendFor(cfg.StoreURL)
	if err != nil {
		return "", nil, err
	}
	if backend != want {
		return "", nil, fmt.Errorf("store backend is %s, this command needs %s", backend, want)
	}
	return cfg.StoreURL, cfg, nil
}

func withPool(ctx context.Context, fn func(context.Context, *pgxpool.Pool) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dbURL, _, err := loadStoreURL(repository.BackendPostgres)
	if err != nil {
		return err
	}
	pool, err := repository.NewPool(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	defer pool.Close()
	return fn(ctx, pool)
}

func runMongoIndexes(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	uri, cfg, err := loadStoreURL(repository.BackendMongo)
	if err != nil {
		return err
	}
	store, err := repository.Open(ctx, uri, cfg.StoreDatabase)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()
	// Open already ensured the indexes.
	slog.Info("mongodb indexes ensured")
	return nil
}

func findMigrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

// collectUpFiles は .up.sql ファイル名をソート済みで返す
func collectUpFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func ensureSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	return err
}

// ---------------------------------------------------------------------------
// (default) 差分マイグレーション
// ---------------------------------------------------------------------------
func runIncremental(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	if err := ensureSchemaMigrations(ctx, pool); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	upFiles, err := collectUpFiles(dir)
	if err != nil {
		return err
	}
	applied := 0
	for i, filename := range upFiles {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		if err := pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if exists {
			continue
		}

		sql, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		applied++
		slog.Info("migration completed", "number", i+1, "migration", name)
	}

	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
	return nil
}

// ---------------------------------------------------------------------------
// 全テーブル DROP
// ---------------------------------------------------------------------------
func runDropAll(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	slog.Info("dropping all tables")
	sql, err := os.ReadFile(filepath.Join(dir, "000_drop_all.sql"))
	if err != nil {
		return fmt.Errorf("read 000_drop_all.sql: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("drop all: %w", err)
	}
	slog.Info("all tables dropped")
	return nil
}

// ---------------------------------------------------------------------------
// 集約スキーマで再作成
// ---------------------------------------------------------------------------
func runConsolidated(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	slog.Info("applying consolidated schema")
	sql, err := os.ReadFile(filepath.Join(dir, "000_consolidated.sql"))
	if err != nil {
		return fmt.Errorf("read 000_consolidated.sql: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("consolidated apply: %w", err)
	}

	// 全マイグレーションを適用済みとして記録
	if err := ensureSchemaMigrations(ctx, pool); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	upFiles, err := collectUpFiles(dir)
	if err != nil {
		return err
	}
	for _, filename := range upFiles {
		name := strings.TrimSuffix(filename, ".up.sql")
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING", name); err != nil {
			return fmt.Errorf("mark migration %s: %w", name, err)
		}
	}
	slog.Info("consolidated schema applied", "migrations_marked", len(upFiles))
	return nil
}
