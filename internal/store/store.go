// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

// Package store is the DuckDB-backed read surface of the recommendation
// engine. It implements recommend.DataProvider plus the project-detail
// lookup for the public API.
//
// Subject existence and empty skill sets are distinct: a lookup for a
// missing user or project returns an error wrapping recommend.ErrNotFound,
// while an existing subject with no skills returns an empty result.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the "duckdb" database/sql driver.
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/skillbridge/skillbridge/internal/metrics"
	"github.com/skillbridge/skillbridge/internal/recommend"
)

// Config holds database settings.
type Config struct {
	// Path is the database file; empty selects an in-memory database
	Path string `json:"path" koanf:"path"`
	// MaxMemory caps DuckDB's memory use, e.g. "512MB"
	MaxMemory string `json:"max_memory" koanf:"max_memory"`
	// Threads caps DuckDB's worker threads; 0 leaves the default
	Threads int `json:"threads" koanf:"threads"`
	// MaxOpenConns caps the database/sql pool
	MaxOpenConns int `json:"max_open_conns" koanf:"max_open_conns"`
}

// DefaultConfig returns an in-memory database tuned for tests and
// single-node deployments.
func DefaultConfig() Config {
	return Config{
		MaxMemory:    "512MB",
		MaxOpenConns: 4,
	}
}

// Store wraps the DuckDB connection pool.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// New opens the database, applies settings, and creates the schema.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("duckdb", connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info().Str("path", cfg.Path).Msg("database ready")
	return s, nil
}

// Ping verifies the connection, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func connString(cfg Config) string {
	conn := cfg.Path
	sep := "?"
	if cfg.MaxMemory != "" {
		conn += sep + "max_memory=" + cfg.MaxMemory
		sep = "&"
	}
	if cfg.Threads > 0 {
		conn += fmt.Sprintf("%sthreads=%d", sep, cfg.Threads)
	}
	return conn
}

func (s *Store) createSchema(ctx context.Context) error {
	for _, ddl := range schema {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("store: create schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		email VARCHAR NOT NULL DEFAULT '',
		headline VARCHAR NOT NULL DEFAULT '',
		avatar_url VARCHAR NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_skills (
		user_id BIGINT NOT NULL,
		skill_id BIGINT NOT NULL,
		PRIMARY KEY (user_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT '',
		status VARCHAR NOT NULL DEFAULT 'active',
		creator_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS project_skills (
		project_id BIGINT NOT NULL,
		skill_id BIGINT NOT NULL,
		mandatory BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (project_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS project_members (
		project_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		role VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		joined_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		PRIMARY KEY (project_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_categories (
		project_id BIGINT NOT NULL,
		category_id BIGINT NOT NULL,
		PRIMARY KEY (project_id, category_id)
	)`,
}

// observe records query latency under the given operation label.
func observe(operation string, start time.Time) {
	metrics.RecordStoreQuery(operation, time.Since(start))
}

// notFound wraps recommend.ErrNotFound with subject context.
func notFound(subject string, id int64) error {
	return fmt.Errorf("%s %d: %w", subject, id, recommend.ErrNotFound)
}
