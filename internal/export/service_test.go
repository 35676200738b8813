package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"reflect"
	"testing"
	"time"

	"github.com/rpattn/defectwatch/internal/analysis"
	"github.com/rpattn/defectwatch/internal/domain"

	"github.com/xuri/excelize/v2"
)

type stubRecordStore struct {
	records []domain.InspectionRecord
}

func (s *stubRecordStore) ListByDateRange(ctx context.Context, dateRange *domain.DateRange) ([]domain.InspectionRecord, error) {
	var out []domain.InspectionRecord
	for _, record := range s.records {
		if dateRange != nil && !dateRange.Contains(record.InspectionDate) {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *stubRecordStore) ListByDefect(ctx context.Context, defectCode string, dateRange *domain.DateRange) ([]domain.InspectionRecord, error) {
	return nil, nil
}

func (s *stubRecordStore) CreateBatch(ctx context.Context, records []domain.InspectionRecord) (int, error) {
	return 0, nil
}

func exportRecord(defectCode, lotID string, day int, qty int) domain.InspectionRecord {
	return domain.InspectionRecord{
		InspectionID:   defectCode + lotID,
		DefectCode:     defectCode,
		LotID:          lotID,
		InspectionDate: time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		QtyDefects:     qty,
		IsDataComplete: true,
	}
}

func newTestService() *Service {
	store := &stubRecordStore{records: []domain.InspectionRecord{
		exportRecord("DEF-001", "LOT-A", 2, 5),
		exportRecord("DEF-001", "LOT-B", 10, 3),
		exportRecord("DEF-002", "LOT-A", 3, 7),
	}}
	service := NewService(analysis.NewService(store))
	service.now = func() time.Time {
		return time.Date(2026, 3, 20, 14, 30, 0, 0, time.UTC)
	}
	return service
}

func TestServiceExportCSV(t *testing.T) {
	service := newTestService()

	result, err := service.DefectList(context.Background(), FormatCSV, nil)
	if err != nil {
		t.Fatalf("export returned error: %v", err)
	}

	if result.FileName != "recurring-defects-20260320-143000.csv" {
		t.Errorf("unexpected file name %q", result.FileName)
	}
	if result.ContentType != "text/csv" {
		t.Errorf("unexpected content type %q", result.ContentType)
	}

	rows, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0], listHeader) {
		t.Errorf("unexpected header %v", rows[0])
	}

	want := []string{"DEF-001", "RECURRING", "2", "2", "2026-03-02", "2026-03-10", "8"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("unexpected first row:\n got %v\nwant %v", rows[1], want)
	}
	if rows[2][0] != "DEF-002" || rows[2][1] != "NOT_RECURRING" {
		t.Errorf("unexpected second row %v", rows[2])
	}
}

func TestServiceExportXLSX(t *testing.T) {
	service := newTestService()

	result, err := service.DefectList(context.Background(), FormatXLSX, nil)
	if err != nil {
		t.Fatalf("export returned error: %v", err)
	}

	if result.FileName != "recurring-defects-20260320-143000.xlsx" {
		t.Errorf("unexpected file name %q", result.FileName)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("export is not a valid workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("failed to read sheet %q: %v", sheetName, err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0], listHeader) {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "DEF-001" || rows[1][1] != "RECURRING" || rows[1][6] != "8" {
		t.Errorf("unexpected first row %v", rows[1])
	}
}

func TestServiceExportAppliesDateRange(t *testing.T) {
	service := newTestService()

	result, err := service.DefectList(context.Background(), FormatCSV, &domain.DateRange{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("export returned error: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	for _, row := range rows[1:] {
		if row[1] == "RECURRING" {
			t.Errorf("nothing recurs within a single-week range: %v", rows)
		}
	}
}

func TestServiceExportRejectsUnknownFormat(t *testing.T) {
	service := newTestService()

	if _, err := service.DefectList(context.Background(), Format("pdf"), nil); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
