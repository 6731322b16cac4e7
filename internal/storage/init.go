package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/config"
	"github.com/fatali-fataliyev/budget_assistant/logging"
	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

var (
	connectAttempts = 15
	connectDelay    = 3 * time.Second
)

// Open builds the store selected by cfg.Storage, migrates it and seeds the
// default categories when enabled.
func Open(ctx context.Context, cfg *config.Config) (Storage, error) {
	var s Storage
	switch cfg.Storage {
	case config.StorageMemory:
		s = NewInMemoryStorage()
	case config.StorageMySQL:
		db, err := InitMySQL(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		s = NewSQLStorage(db, TypeMySQL)
	case config.StorageSQLite:
		db, err := InitSQLite(ctx, cfg.DB.SQLitePath)
		if err != nil {
			return nil, err
		}
		s = NewSQLStorage(db, TypeSQLite)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	if cfg.SeedCategories {
		if err := s.EnsureCategories(ctx, budget.DefaultCategories()); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to seed categories: %w", err)
		}
	}
	logging.Logger.Infof("storage ready: %s", s.GetStorageType())
	return s, nil
}

func mysqlDSN(cfg config.DBConfig) (*mysql.Config, error) {
	if cfg.FullDSN != "" {
		c, err := mysql.ParseDSN(cfg.FullDSN)
		if err != nil {
			return nil, fmt.Errorf("invalid FULL_DSN: %w", err)
		}
		c.ParseTime = true
		c.Loc = time.Local
		c.ClientFoundRows = true
		return c, nil
	}
	if cfg.User == "" || cfg.Password == "" || cfg.Host == "" || cfg.Port == "" {
		return nil, fmt.Errorf("missing required DB environment variables")
	}
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	c.DBName = cfg.Name
	c.ParseTime = true
	c.Loc = time.Local
	c.ClientFoundRows = true
	return c, nil
}

// InitMySQL waits for the server, creates the database when missing and
// applies pending migrations.
func InitMySQL(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	dsn, err := mysqlDSN(cfg)
	if err != nil {
		return nil, err
	}
	dbname := dsn.DBName
	if dbname == "" {
		dbname = "budget_assistant"
	}

	admin := dsn.Clone()
	admin.DBName = ""

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", admin.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %w", err)
	}
	defer adminDb.Close()

	if err := waitForDB(ctx, adminDb); err != nil {
		return nil, err
	}

	var dbnameExistence string
	err = adminDb.QueryRowContext(ctx, "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?", dbname).Scan(&dbnameExistence)
	if errors.Is(err, sql.ErrNoRows) {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci", dbname)
		if _, err := adminDb.ExecContext(ctx, createDbSql); err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %w", err)
	}

	dsn.DBName = dbname
	logging.Logger.Info("Connecting to database...")
	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitSQLite opens (creating if needed) the database file at path and
// applies pending migrations.
func InitSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_loc=auto", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	logging.Logger.Info("Running migrations...")
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	if err := runMigrations(ctx, db, sub); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func waitForDB(ctx context.Context, db *sql.DB) error {
	for i := 0; i < connectAttempts; i++ {
		if err := db.PingContext(ctx); err == nil {
			return nil
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/%d)", i+1, connectAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(connectDelay):
		}
	}
	return fmt.Errorf("database unreachable after multiple attempts")
}
