package repository

import (
	"context"

	"github.com/rpattn/defectwatch/internal/domain"

	"github.com/google/uuid"
)

// InspectionRepository is the Record Store boundary the analysis core
// reads through. Implementations return records joined with their defect
// and lot business keys; ordering is not guaranteed. The core never
// writes; CreateBatch exists for the ingestion path only.
type InspectionRepository interface {
	ListByDateRange(ctx context.Context, dateRange *domain.DateRange) ([]domain.InspectionRecord, error)
	ListByDefect(ctx context.Context, defectCode string, dateRange *domain.DateRange) ([]domain.InspectionRecord, error)
	CreateBatch(ctx context.Context, records []domain.InspectionRecord) (int, error)
}

// DefectRepository defines the interface for defect master data operations
type DefectRepository interface {
	Ensure(ctx context.Context, defectCode string) (domain.Defect, error)
	GetByCode(ctx context.Context, defectCode string) (domain.Defect, error)
	List(ctx context.Context) ([]domain.Defect, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LotRepository defines the interface for lot master data operations
type LotRepository interface {
	Ensure(ctx context.Context, lotID string) (domain.Lot, error)
	GetByLotID(ctx context.Context, lotID string) (domain.Lot, error)
	List(ctx context.Context) ([]domain.Lot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImportLogRepository stores row-level import errors for observability.
type ImportLogRepository interface {
	Record(ctx context.Context, entry domain.ImportLogEntry) error
	List(ctx context.Context, fileName string, limit int, offset int) ([]domain.ImportLogEntry, error)
}
