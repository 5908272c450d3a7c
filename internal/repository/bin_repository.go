package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"cleancity/pkg/database"
	"cleancity/pkg/models"
)

type binRepository struct {
	db *database.DB
}

// NewBinRepository creates a SQL-backed bin location repository
func NewBinRepository(db *database.DB) BinRepository {
	return &binRepository{db: db}
}

const binColumns = `id, name, type, latitude, longitude, address, status, capacity,
	accepts, timings, contact, instructions, created_at, updated_at`

// Create inserts a new bin location
func (r *binRepository) Create(ctx context.Context, bin *models.BinLocation) error {
	accepts, err := json.Marshal(bin.Accepts)
	if err != nil {
		return fmt.Errorf("create_bin: %w", err)
	}

	query := `
		INSERT INTO bin_locations (` + binColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.db.ExecContext(ctx, query,
		bin.ID, bin.Name, bin.Type, bin.Latitude, bin.Longitude, bin.Address,
		string(bin.Status), bin.Capacity, accepts, bin.Timings, bin.Contact,
		bin.Instructions, bin.CreatedAt, bin.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create_bin: %w", err)
	}
	return nil
}

// GetByID retrieves a bin by ID
func (r *binRepository) GetByID(ctx context.Context, id string) (*models.BinLocation, error) {
	query := `SELECT ` + binColumns + ` FROM bin_locations WHERE id = $1`
	bin, err := scanBin(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get_bin: %w", models.ErrBinNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get_bin: %w", err)
	}
	return bin, nil
}

// List returns bins in insertion order, optionally filtered by status.
// Insertion order matters: distance ties in the matcher keep store order.
func (r *binRepository) List(ctx context.Context, status models.BinStatus) ([]models.BinLocation, error) {
	query := `SELECT ` + binColumns + ` FROM bin_locations ORDER BY created_at, id`
	args := []interface{}{}
	if status != "" {
		query = `SELECT ` + binColumns + ` FROM bin_locations WHERE status = $1 ORDER BY created_at, id`
		args = append(args, string(status))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list_bins: %w", err)
	}
	defer rows.Close()

	var bins []models.BinLocation
	for rows.Next() {
		bin, err := scanBin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan_bin: %w", err)
		}
		bins = append(bins, *bin)
	}
	return bins, rows.Err()
}

// Update writes the full bin record
func (r *binRepository) Update(ctx context.Context, bin *models.BinLocation) error {
	accepts, err := json.Marshal(bin.Accepts)
	if err != nil {
		return fmt.Errorf("update_bin: %w", err)
	}

	query := `
		UPDATE bin_locations
		SET name = $2, type = $3, latitude = $4, longitude = $5, address = $6,
		    status = $7, capacity = $8, accepts = $9, timings = $10,
		    contact = $11, instructions = $12, updated_at = $13
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		bin.ID, bin.Name, bin.Type, bin.Latitude, bin.Longitude, bin.Address,
		string(bin.Status), bin.Capacity, accepts, bin.Timings, bin.Contact,
		bin.Instructions, bin.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update_bin: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update_bin: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update_bin: %w", models.ErrBinNotFound)
	}
	return nil
}

func scanBin(row rowScanner) (*models.BinLocation, error) {
	bin := &models.BinLocation{}
	var status string
	var accepts []byte

	err := row.Scan(
		&bin.ID, &bin.Name, &bin.Type, &bin.Latitude, &bin.Longitude,
		&bin.Address, &status, &bin.Capacity, &accepts, &bin.Timings,
		&bin.Contact, &bin.Instructions, &bin.CreatedAt, &bin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	bin.Status = models.BinStatus(status)
	if err := json.Unmarshal(accepts, &bin.Accepts); err != nil {
		return nil, fmt.Errorf("decode accepts: %w", err)
	}
	return bin, nil
}
