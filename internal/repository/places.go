package repository

import (
	"context"
	"errors"
	"fmt"

	"transport-editor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// DefaultPlacesTable is the gazetteer table used when none is configured
const DefaultPlacesTable = "places"

// PlaceRepository searches the PostGIS gazetteer backing address resolution
type PlaceRepository struct {
	db    *pgxpool.Pool
	table string
}

// NewPlaceRepository creates a new PostgreSQL place repository reading from table
func NewPlaceRepository(db *pgxpool.Pool, table string) *PlaceRepository {
	if table == "" {
		table = DefaultPlacesTable
	}
	return &PlaceRepository{db: db, table: pq.QuoteIdentifier(table)}
}

// SearchPlacesByText performs a full-text search on the gazetteer, best rank first
func (r *PlaceRepository) SearchPlacesByText(ctx context.Context, query string, limit int) ([]models.Place, error) {
	sql := `
		SELECT
			id,
			address,
			locality,
			region,
			country,
			ST_Y(geom::geometry) as latitude,
			ST_X(geom::geometry) as longitude
		FROM ` + r.table + `
		WHERE full_address_tsvector @@ plainto_tsquery('simple', $1)
		ORDER BY ts_rank(full_address_tsvector, plainto_tsquery('simple', $1)) DESC, id
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute search query: %w", err)
	}
	defer rows.Close()

	places := []models.Place{}
	for rows.Next() {
		var p models.Place
		err := rows.Scan(
			&p.ID,
			&p.Address,
			&p.Locality,
			&p.Region,
			&p.Country,
			&p.Latitude,
			&p.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan place: %w", err)
		}
		places = append(places, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return places, nil
}

// FindPlaceByID returns a single place, or nil when it does not exist
func (r *PlaceRepository) FindPlaceByID(ctx context.Context, id int64) (*models.Place, error) {
	sql := `
		SELECT
			id,
			address,
			locality,
			region,
			country,
			ST_Y(geom::geometry) as latitude,
			ST_X(geom::geometry) as longitude
		FROM ` + r.table + `
		WHERE id = $1
	`

	var p models.Place
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&p.ID,
		&p.Address,
		&p.Locality,
		&p.Region,
		&p.Country,
		&p.Latitude,
		&p.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to find place: %w", err)
	}

	return &p, nil
}
