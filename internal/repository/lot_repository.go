package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/defectwatch/internal/domain"
)

// lotRepository implements LotRepository interface
type lotRepository struct {
	pool *pgxpool.Pool
}

// NewLotRepository creates a new lot repository
func NewLotRepository(pool *pgxpool.Pool) LotRepository {
	return &lotRepository{pool: pool}
}

// Ensure inserts the lot identifier if it is not present yet and returns
// the stored row either way.
func (r *lotRepository) Ensure(ctx context.Context, lotID string) (domain.Lot, error) {
	var lot domain.Lot
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lots (lot_id)
		VALUES ($1)
		ON CONFLICT (lot_id) DO UPDATE SET lot_id = EXCLUDED.lot_id
		RETURNING id, lot_id, created_at`,
		lotID,
	).Scan(&lot.ID, &lot.LotID, &lot.CreatedAt)
	if err != nil {
		return domain.Lot{}, fmt.Errorf("failed to ensure lot %s: %w", lotID, err)
	}
	return lot, nil
}

// GetByLotID retrieves a lot by its business identifier
func (r *lotRepository) GetByLotID(ctx context.Context, lotID string) (domain.Lot, error) {
	var lot domain.Lot
	err := r.pool.QueryRow(ctx,
		"SELECT id, lot_id, created_at FROM lots WHERE lot_id = $1",
		lotID,
	).Scan(&lot.ID, &lot.LotID, &lot.CreatedAt)
	if err != nil {
		return domain.Lot{}, fmt.Errorf("failed to get lot %s: %w", lotID, err)
	}
	return lot, nil
}

// List retrieves all lots ordered by identifier
func (r *lotRepository) List(ctx context.Context) ([]domain.Lot, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, lot_id, created_at FROM lots ORDER BY lot_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}
	defer rows.Close()

	lots := []domain.Lot{}
	for rows.Next() {
		var lot domain.Lot
		if err := rows.Scan(&lot.ID, &lot.LotID, &lot.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lot: %w", err)
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lots: %w", err)
	}
	return lots, nil
}

// Delete removes a lot; its inspection records go with it via cascade.
func (r *lotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM lots WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete lot: %w", err)
	}
	return nil
}
