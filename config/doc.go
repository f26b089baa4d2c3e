// Package config provides database configuration helpers for PostgreSQL
// connections used by the circulation ledger.
//
// It contains factory functions for creating database connections using
// different PostgreSQL drivers (pgxpool.Pool, sql.DB, sqlx.DB) with
// pre-configured pools and a DSN that can be overridden via the
// CIRCULATION_POSTGRES_DSN environment variable.
package config
