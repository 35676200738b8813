package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rpattn/defectwatch/internal/domain"
	"github.com/rpattn/defectwatch/internal/repository"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

	dateLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"02/01/2006",
		time.RFC3339,
	}
)

// Required upload columns; is_data_complete is optional and defaults true.
var requiredColumns = []string{"inspection_id", "defect_code", "lot_id", "inspection_date", "qty_defects"}

// Service imports inspection records from tabular uploads.
type Service struct {
	defects     repository.DefectRepository
	lots        repository.LotRepository
	inspections repository.InspectionRepository
	logs        repository.ImportLogRepository
}

// NewService creates a new import service.
func NewService(
	defects repository.DefectRepository,
	lots repository.LotRepository,
	inspections repository.InspectionRepository,
	logs repository.ImportLogRepository,
) *Service {
	return &Service{
		defects:     defects,
		lots:        lots,
		inspections: inspections,
		logs:        logs,
	}
}

// Request describes the import input.
type Request struct {
	FileName string
	Data     io.Reader
}

// RowError reports one rejected upload row.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Message   string `json:"message"`
}

// Summary returns import level metrics.
type Summary struct {
	TotalRows    int        `json:"totalRows"`
	ValidRows    int        `json:"validRows"`
	InvalidRows  int        `json:"invalidRows"`
	RowsInserted int        `json:"rowsInserted"`
	Errors       []RowError `json:"errors,omitempty"`
}

type tableData struct {
	headers []string
	rows    [][]string
}

// Import reads the uploaded file, ensures the referenced defects and lots
// exist, and persists the valid inspection records. Rows that violate an
// invariant are skipped, reported in the summary, and written to the
// import log; they never reach the database.
func (s *Service) Import(ctx context.Context, req Request) (Summary, error) {
	summary := Summary{}

	if req.Data == nil {
		return summary, errors.New("data reader is required")
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return summary, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return summary, errors.New("file is empty")
	}

	table, err := parseTable(req.FileName, payload)
	if err != nil {
		return summary, err
	}

	columns, err := resolveColumns(table.headers)
	if err != nil {
		return summary, err
	}

	summary.TotalRows = len(table.rows)

	var valid []domain.InspectionRecord
	defectCodes := map[string]struct{}{}
	lotIDs := map[string]struct{}{}

	for idx, row := range table.rows {
		rowNumber := idx + 2 // 1-based, after the header row
		record, err := buildRecord(columns, row)
		if err == nil {
			err = record.Validate()
		}
		if err != nil {
			summary.InvalidRows++
			summary.Errors = append(summary.Errors, RowError{RowNumber: rowNumber, Message: err.Error()})
			s.logRowError(ctx, req.FileName, rowNumber, err)
			continue
		}

		summary.ValidRows++
		valid = append(valid, record)
		defectCodes[record.DefectCode] = struct{}{}
		lotIDs[record.LotID] = struct{}{}
	}

	if len(valid) == 0 {
		return summary, nil
	}

	for code := range defectCodes {
		if _, err := s.defects.Ensure(ctx, code); err != nil {
			return summary, fmt.Errorf("failed to ensure defect %s: %w", code, err)
		}
	}
	for lotID := range lotIDs {
		if _, err := s.lots.Ensure(ctx, lotID); err != nil {
			return summary, fmt.Errorf("failed to ensure lot %s: %w", lotID, err)
		}
	}

	inserted, err := s.inspections.CreateBatch(ctx, valid)
	if err != nil {
		return summary, fmt.Errorf("failed to insert inspection records: %w", err)
	}
	summary.RowsInserted = inserted

	return summary, nil
}

func (s *Service) logRowError(ctx context.Context, fileName string, rowNumber int, rowErr error) {
	if s.logs == nil {
		return
	}
	row := rowNumber
	entry := domain.ImportLogEntry{
		FileName:     fileName,
		RowNumber:    &row,
		ErrorMessage: rowErr.Error(),
	}
	// Log write failures must not fail the import itself.
	_ = s.logs.Record(ctx, entry)
}

type columnIndexes struct {
	inspectionID   int
	defectCode     int
	lotID          int
	inspectionDate int
	qtyDefects     int
	dataComplete   int // -1 when absent
}

func resolveColumns(headers []string) (columnIndexes, error) {
	positions := map[string]int{}
	for idx, header := range headers {
		positions[header] = idx
	}

	for _, name := range requiredColumns {
		if _, ok := positions[name]; !ok {
			return columnIndexes{}, fmt.Errorf("missing required column %q", name)
		}
	}

	columns := columnIndexes{
		inspectionID:   positions["inspection_id"],
		defectCode:     positions["defect_code"],
		lotID:          positions["lot_id"],
		inspectionDate: positions["inspection_date"],
		qtyDefects:     positions["qty_defects"],
		dataComplete:   -1,
	}
	if idx, ok := positions["is_data_complete"]; ok {
		columns.dataComplete = idx
	}
	return columns, nil
}

func buildRecord(columns columnIndexes, row []string) (domain.InspectionRecord, error) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	date, err := parseDate(cell(columns.inspectionDate))
	if err != nil {
		return domain.InspectionRecord{}, err
	}

	qtyRaw := cell(columns.qtyDefects)
	qty, err := strconv.Atoi(qtyRaw)
	if err != nil {
		return domain.InspectionRecord{}, fmt.Errorf("invalid qty_defects %q", qtyRaw)
	}

	complete := true
	if columns.dataComplete >= 0 {
		if raw := cell(columns.dataComplete); raw != "" {
			complete, err = strconv.ParseBool(raw)
			if err != nil {
				return domain.InspectionRecord{}, fmt.Errorf("invalid is_data_complete %q", raw)
			}
		}
	}

	return domain.InspectionRecord{
		InspectionID:   cell(columns.inspectionID),
		DefectCode:     cell(columns.defectCode),
		LotID:          cell(columns.lotID),
		InspectionDate: date,
		QtyDefects:     qty,
		IsDataComplete: complete,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("missing inspection_date")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized inspection_date %q", value)
}

func parseTable(fileName string, payload []byte) (tableData, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload)
	case ".xlsx":
		return parseExcel(payload)
	default:
		return tableData{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) (tableData, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read csv: %w", err)
	}

	return normalizeTable(records)
}

func parseExcel(payload []byte) (tableData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return tableData{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return tableData{}, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return normalizeTable(rows)
}

func normalizeTable(records [][]string) (tableData, error) {
	var headers []string
	var dataRows [][]string

	for _, row := range records {
		if isEmptyRow(row) {
			continue
		}
		if headers == nil {
			headers = sanitizeHeaders(row)
			continue
		}
		dataRows = append(dataRows, row)
	}

	if headers == nil {
		return tableData{}, errors.New("no header row detected")
	}

	return tableData{headers: headers, rows: dataRows}, nil
}

func sanitizeHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, value := range row {
		header := strings.ToLower(strings.TrimSpace(value))
		header = strings.ReplaceAll(header, " ", "_")
		headers[i] = header
	}
	return headers
}

func isEmptyRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
