package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/defectwatch/internal/domain"
)

// inspectionRepository implements InspectionRepository interface
type inspectionRepository struct {
	pool *pgxpool.Pool
}

// NewInspectionRepository creates a new inspection record repository
func NewInspectionRepository(pool *pgxpool.Pool) InspectionRepository {
	return &inspectionRepository{pool: pool}
}

const inspectionSelect = `
SELECT ir.id, ir.inspection_id, d.defect_code, l.lot_id,
       ir.inspection_date, ir.qty_defects, ir.is_data_complete
FROM inspection_records ir
JOIN defects d ON d.id = ir.defect_id
JOIN lots l ON l.id = ir.lot_id`

// ListByDateRange retrieves all inspection records, optionally restricted
// to an inclusive date range, joined with their defect and lot codes.
func (r *inspectionRepository) ListByDateRange(ctx context.Context, dateRange *domain.DateRange) ([]domain.InspectionRecord, error) {
	query := inspectionSelect
	args := []any{}
	if dateRange != nil {
		query += " WHERE ir.inspection_date BETWEEN $1 AND $2"
		args = append(args, dateRange.From, dateRange.To)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspection records: %w", err)
	}
	defer rows.Close()

	return scanInspectionRecords(rows)
}

// ListByDefect retrieves the inspection records of one defect code,
// optionally restricted to an inclusive date range.
func (r *inspectionRepository) ListByDefect(ctx context.Context, defectCode string, dateRange *domain.DateRange) ([]domain.InspectionRecord, error) {
	query := inspectionSelect + " WHERE d.defect_code = $1"
	args := []any{defectCode}
	if dateRange != nil {
		query += " AND ir.inspection_date BETWEEN $2 AND $3"
		args = append(args, dateRange.From, dateRange.To)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspection records for defect %s: %w", defectCode, err)
	}
	defer rows.Close()

	return scanInspectionRecords(rows)
}

// CreateBatch inserts inspection records in one transaction, resolving the
// defect and lot business keys to their surrogate IDs. Records whose
// inspection_id already exists are skipped. Returns the number of rows
// actually inserted.
func (r *inspectionRepository) CreateBatch(ctx context.Context, records []domain.InspectionRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, record := range records {
		tag, err := tx.Exec(ctx, `
			INSERT INTO inspection_records (inspection_id, defect_id, lot_id, inspection_date, qty_defects, is_data_complete)
			SELECT $1, d.id, l.id, $4, $5, $6
			FROM defects d, lots l
			WHERE d.defect_code = $2 AND l.lot_id = $3
			ON CONFLICT (inspection_id) DO NOTHING`,
			record.InspectionID, record.DefectCode, record.LotID,
			record.InspectionDate, record.QtyDefects, record.IsDataComplete,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert inspection record %s: %w", record.InspectionID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit inspection batch: %w", err)
	}

	return inserted, nil
}

func scanInspectionRecords(rows pgx.Rows) ([]domain.InspectionRecord, error) {
	records := []domain.InspectionRecord{}
	for rows.Next() {
		var record domain.InspectionRecord
		if err := rows.Scan(
			&record.ID,
			&record.InspectionID,
			&record.DefectCode,
			&record.LotID,
			&record.InspectionDate,
			&record.QtyDefects,
			&record.IsDataComplete,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inspection record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inspection records: %w", err)
	}
	return records, nil
}
