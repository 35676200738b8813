package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpattn/defectwatch/internal/analysis"
	"github.com/rpattn/defectwatch/internal/domain"
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
	var out []domain.InspectionRecord
	for _, record := range s.records {
		if record.DefectCode != defectCode {
			continue
		}
		if dateRange != nil && !dateRange.Contains(record.InspectionDate) {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *stubRecordStore) CreateBatch(ctx context.Context, records []domain.InspectionRecord) (int, error) {
	return 0, nil
}

func testRecord(defectCode, lotID string, day int, qty int, complete bool) domain.InspectionRecord {
	return domain.InspectionRecord{
		InspectionID:   defectCode + lotID,
		DefectCode:     defectCode,
		LotID:          lotID,
		InspectionDate: time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		QtyDefects:     qty,
		IsDataComplete: complete,
	}
}

func newTestHandler() http.Handler {
	store := &stubRecordStore{records: []domain.InspectionRecord{
		testRecord("DEF-001", "LOT-A", 2, 5, true),
		testRecord("DEF-001", "LOT-B", 10, 3, true),
		testRecord("DEF-002", "LOT-A", 3, 7, true),
	}}
	return NewHTTPHandler(analysis.NewService(store))
}

func TestHandlerDefectList(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/defects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Rows []struct {
			DefectCode string `json:"defect_code"`
			Status     string `json:"status"`
			NumWeeks   int    `json:"num_weeks"`
			NumLots    int    `json:"num_lots"`
			TotalQty   int    `json:"total_qty"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if len(payload.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(payload.Rows))
	}
	if payload.Rows[0].DefectCode != "DEF-001" || payload.Rows[0].Status != "RECURRING" {
		t.Errorf("expected DEF-001 recurring first, got %+v", payload.Rows[0])
	}
	if payload.Rows[0].NumWeeks != 2 || payload.Rows[0].NumLots != 2 || payload.Rows[0].TotalQty != 8 {
		t.Errorf("unexpected aggregates: %+v", payload.Rows[0])
	}
}

func TestHandlerDefectListWithDateRange(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/defects?from=2026-03-01&to=2026-03-05", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Rows []struct {
			Status string `json:"status"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	for _, row := range payload.Rows {
		if row.Status == "RECURRING" {
			t.Errorf("nothing recurs within a single-week range: %+v", payload.Rows)
		}
	}
}

func TestHandlerDefectDetail(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/defects/DEF-001", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		DefectCode string `json:"defect_code"`
		Weeks      []struct {
			WeekStart  string   `json:"week_start"`
			Lots       []string `json:"lots"`
			TotalQty   int      `json:"total_qty"`
			IsComplete bool     `json:"is_complete"`
		} `json:"weeks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if payload.DefectCode != "DEF-001" {
		t.Errorf("unexpected defect code %s", payload.DefectCode)
	}
	if len(payload.Weeks) != 2 {
		t.Fatalf("expected 2 weekly rows, got %d", len(payload.Weeks))
	}
	if payload.Weeks[0].TotalQty != 3 || payload.Weeks[1].TotalQty != 5 {
		t.Errorf("weeks must be ordered newest first: %+v", payload.Weeks)
	}
}

func TestHandlerMissingPeriods(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/defects/DEF-002/missing-periods?from=2026-03-02&to=2026-03-15", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		DefectCode     string `json:"defect_code"`
		MissingPeriods []struct {
			WeekStart string `json:"week_start"`
			Reason    string `json:"reason"`
		} `json:"missing_periods"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	// DEF-002 has a record only in the week of 2026-03-02.
	if len(payload.MissingPeriods) != 1 {
		t.Fatalf("expected 1 missing period, got %+v", payload.MissingPeriods)
	}
	if payload.MissingPeriods[0].Reason != "no records" {
		t.Errorf("unexpected reason %q", payload.MissingPeriods[0].Reason)
	}
}

func TestHandlerMissingPeriodsRequiresRange(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/defects/DEF-002/missing-periods", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlerRejectsBadDateRange(t *testing.T) {
	handler := newTestHandler()

	for _, target := range []string{
		"/api/defects?from=2026-03-01",
		"/api/defects?from=bogus&to=2026-03-05",
		"/api/defects?from=2026-03-10&to=2026-03-01",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestHandlerRejectsNonGET(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/defects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
