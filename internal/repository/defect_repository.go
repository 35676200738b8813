package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/defectwatch/internal/domain"
)

// defectRepository implements DefectRepository interface
type defectRepository struct {
	pool *pgxpool.Pool
}

// NewDefectRepository creates a new defect repository
func NewDefectRepository(pool *pgxpool.Pool) DefectRepository {
	return &defectRepository{pool: pool}
}

// Ensure inserts the defect code if it is not present yet and returns the
// stored row either way.
func (r *defectRepository) Ensure(ctx context.Context, defectCode string) (domain.Defect, error) {
	var defect domain.Defect
	err := r.pool.QueryRow(ctx, `
		INSERT INTO defects (defect_code)
		VALUES ($1)
		ON CONFLICT (defect_code) DO UPDATE SET defect_code = EXCLUDED.defect_code
		RETURNING id, defect_code, created_at`,
		defectCode,
	).Scan(&defect.ID, &defect.DefectCode, &defect.CreatedAt)
	if err != nil {
		return domain.Defect{}, fmt.Errorf("failed to ensure defect %s: %w", defectCode, err)
	}
	return defect, nil
}

// GetByCode retrieves a defect by its business code
func (r *defectRepository) GetByCode(ctx context.Context, defectCode string) (domain.Defect, error) {
	var defect domain.Defect
	err := r.pool.QueryRow(ctx,
		"SELECT id, defect_code, created_at FROM defects WHERE defect_code = $1",
		defectCode,
	).Scan(&defect.ID, &defect.DefectCode, &defect.CreatedAt)
	if err != nil {
		return domain.Defect{}, fmt.Errorf("failed to get defect %s: %w", defectCode, err)
	}
	return defect, nil
}

// List retrieves all defects ordered by code
func (r *defectRepository) List(ctx context.Context) ([]domain.Defect, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, defect_code, created_at FROM defects ORDER BY defect_code",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list defects: %w", err)
	}
	defer rows.Close()

	defects := []domain.Defect{}
	for rows.Next() {
		var defect domain.Defect
		if err := rows.Scan(&defect.ID, &defect.DefectCode, &defect.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan defect: %w", err)
		}
		defects = append(defects, defect)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read defects: %w", err)
	}
	return defects, nil
}

// Delete removes a defect; its inspection records go with it via cascade.
func (r *defectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM defects WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete defect: %w", err)
	}
	return nil
}
