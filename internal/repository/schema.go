package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// EnsureSchema creates the gazetteer and registry tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool, placesTable string) error {
	if placesTable == "" {
		placesTable = DefaultPlacesTable
	}
	table := pq.QuoteIdentifier(placesTable)
	geomIdx := pq.QuoteIdentifier(placesTable + "_geom_idx")
	textIdx := pq.QuoteIdentifier(placesTable + "_full_address_tsvector_idx")

	query := `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS ` + table + ` (
		id BIGSERIAL PRIMARY KEY,
		address VARCHAR(255) NOT NULL,
		locality VARCHAR(255) NOT NULL DEFAULT '',
		region VARCHAR(255) NOT NULL DEFAULT '',
		country VARCHAR(64) NOT NULL DEFAULT '',
		full_address_tsvector TSVECTOR GENERATED ALWAYS AS (
			to_tsvector('simple', address || ' ' || locality || ' ' || region || ' ' || country)
		) STORED,
		geom GEOGRAPHY(POINT, 4326) NOT NULL
	);
	CREATE INDEX IF NOT EXISTS ` + geomIdx + ` ON ` + table + ` USING GIST (geom);
	CREATE INDEX IF NOT EXISTS ` + textIdx + ` ON ` + table + ` USING GIN (full_address_tsvector);

	-- custom_data stays TEXT so the key order written by the editor is kept
	CREATE TABLE IF NOT EXISTS product_versions (
		product_id TEXT NOT NULL,
		version BIGINT NOT NULL,
		latitude TEXT NOT NULL DEFAULT '',
		longitude TEXT NOT NULL DEFAULT '',
		custom_data TEXT NOT NULL DEFAULT '{}',
		sender TEXT NOT NULL DEFAULT '',
		tx_hash TEXT NOT NULL,
		resource_used BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (product_id, version)
	);
	`

	if _, err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}
