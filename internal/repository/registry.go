package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"transport-editor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrProductNotFound is returned when the product or the requested version does not exist
	ErrProductNotFound = errors.New("repository: product not found")
	// ErrInvalidVersion is returned for version selectors that are neither "latest" nor a positive number
	ErrInvalidVersion = errors.New("repository: invalid version")
	// ErrResourceBudgetExceeded is returned when a write needs more resource units than allowed
	ErrResourceBudgetExceeded = errors.New("repository: resource budget exceeded")
	// ErrSenderRequired is returned for writes without a signing identity
	ErrSenderRequired = errors.New("repository: sender is required")
	// ErrConflict is returned when another write created the same version first
	ErrConflict = errors.New("repository: concurrent update")
)

const uniqueViolation = "23505"

// RegistryRepository is the append-only product registry. Every update adds a new product version.
type RegistryRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewRegistryRepository creates a new PostgreSQL product registry
func NewRegistryRepository(db *pgxpool.Pool) *RegistryRepository {
	return &RegistryRepository{db: db, now: time.Now}
}

// ParseVersion validates a version selector. It returns 0 for the latest version.
func ParseVersion(versionID string) (int64, error) {
	if versionID == "" || versionID == models.LatestVersion {
		return 0, nil
	}
	v, err := strconv.ParseInt(versionID, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVersion, versionID)
	}
	return v, nil
}

// FetchCustomData returns the JSON custom data stored for a product version
func (r *RegistryRepository) FetchCustomData(ctx context.Context, productID, versionID string) (string, error) {
	version, err := ParseVersion(versionID)
	if err != nil {
		return "", err
	}

	var row pgx.Row
	if version == 0 {
		row = r.db.QueryRow(ctx, `
			SELECT custom_data
			FROM product_versions
			WHERE product_id = $1
			ORDER BY version DESC
			LIMIT 1
		`, productID)
	} else {
		row = r.db.QueryRow(ctx, `
			SELECT custom_data
			FROM product_versions
			WHERE product_id = $1 AND version = $2
		`, productID, version)
	}

	var customData string
	if err := row.Scan(&customData); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s@%s", ErrProductNotFound, productID, versionID)
		}
		return "", fmt.Errorf("repository: failed to fetch custom data: %w", err)
	}

	return customData, nil
}

// SubmitUpdate appends a new version of the product in a single transaction
func (r *RegistryRepository) SubmitUpdate(ctx context.Context, update models.ProductUpdate, opts models.SubmitOptions) (*models.Receipt, error) {
	if opts.Sender == "" {
		return nil, ErrSenderRequired
	}

	used := EstimateResource(update)
	if used > opts.ResourceBudget {
		return nil, fmt.Errorf("%w: needs %d, budget %d", ErrResourceBudgetExceeded, used, opts.ResourceBudget)
	}

	receipt := &models.Receipt{
		ProductID:    update.ProductID,
		Sender:       opts.Sender,
		ResourceUsed: used,
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var current int64
		err := tx.QueryRow(ctx, `
			SELECT COALESCE(MAX(version), 0)
			FROM product_versions
			WHERE product_id = $1
		`, update.ProductID).Scan(&current)
		if err != nil {
			return fmt.Errorf("repository: failed to read current version: %w", err)
		}
		if current == 0 {
			return fmt.Errorf("%w: %s", ErrProductNotFound, update.ProductID)
		}

		receipt.Version = current + 1
		receipt.TxHash = TxHash(update, receipt.Version, opts.Sender)
		receipt.RecordedAt = r.now().UTC()

		_, err = tx.Exec(ctx, `
			INSERT INTO product_versions
				(product_id, version, latitude, longitude, custom_data, sender, tx_hash, resource_used, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, update.ProductID, receipt.Version, update.Latitude, update.Longitude, update.CustomData,
			opts.Sender, receipt.TxHash, int64(used), receipt.RecordedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s version %d", ErrConflict, update.ProductID, receipt.Version)
			}
			return fmt.Errorf("repository: failed to insert version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// CreateProduct registers the first version of a product. Existing products are left untouched.
func (r *RegistryRepository) CreateProduct(ctx context.Context, productID, customData, sender string) (bool, error) {
	update := models.ProductUpdate{ProductID: productID, CustomData: customData}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO product_versions (product_id, version, custom_data, sender, tx_hash, created_at)
		VALUES ($1, 1, $2, $3, $4, $5)
		ON CONFLICT (product_id, version) DO NOTHING
	`, productID, customData, sender, TxHash(update, 1, sender), r.now().UTC())
	if err != nil {
		return false, fmt.Errorf("repository: failed to create product: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
