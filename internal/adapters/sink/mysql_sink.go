package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mikey/llm-doc-triage/internal/core"
	"go.uber.org/zap"
)

// MySQLSink is a MySQL implementation of the Sink interface
type MySQLSink struct {
	db     *sql.DB
	logger *zap.Logger
}

// ParseMySQLDSN validates a DSN and makes sure timestamps scan into time.Time
func ParseMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// NewMySQLSink connects to MySQL and creates the triage log table
func NewMySQLSink(dsn string, logger *zap.Logger) (*MySQLSink, error) {
	dsn, err := ParseMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS triage_log (
			` + "`key`" + ` VARCHAR(255) PRIMARY KEY,
			value MEDIUMTEXT NOT NULL,
			updated_at TIMESTAMP(6) NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLSink{
		db:     db,
		logger: logger,
	}, nil
}

// Put stores value under key, replacing any previous value
func (s *MySQLSink) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO triage_log (`+"`key`"+`, value, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store sink entry %s: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key
func (s *MySQLSink) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM triage_log WHERE `+"`key`"+` = ?
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("failed to query sink entry %s: %w", key, err)
	}
	return value, nil
}

// Close closes the database connection
func (s *MySQLSink) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL database", zap.Error(err))
		return err
	}
	return nil
}
