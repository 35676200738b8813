package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rpattn/defectwatch/internal/analysis"
	"github.com/rpattn/defectwatch/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Format selects the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	dateLayout = "2006-01-02"
	sheetName  = "Recurring Defects"
)

var listHeader = []string{"Defect Code", "Status", "Weeks", "Lots", "First Seen", "Last Seen", "Total Qty"}

// Service renders the ranked defect list as a downloadable file.
type Service struct {
	analysis *analysis.Service
	now      func() time.Time
}

// NewService creates a new export service.
func NewService(analysisService *analysis.Service) *Service {
	return &Service{
		analysis: analysisService,
		now:      time.Now,
	}
}

// Result is a rendered export ready to stream to the client.
type Result struct {
	FileName    string
	ContentType string
	Data        []byte
}

// DefectList runs the analysis over the given range and renders the ranked
// rows in the requested format.
func (s *Service) DefectList(ctx context.Context, format Format, dateRange *domain.DateRange) (Result, error) {
	list, err := s.analysis.DefectList(ctx, dateRange)
	if err != nil {
		return Result{}, err
	}

	stamp := s.now().UTC().Format("20060102-150405")
	switch format {
	case FormatCSV:
		data, err := renderCSV(list.Rows)
		if err != nil {
			return Result{}, err
		}
		return Result{
			FileName:    fmt.Sprintf("recurring-defects-%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case FormatXLSX:
		data, err := renderXLSX(list.Rows)
		if err != nil {
			return Result{}, err
		}
		return Result{
			FileName:    fmt.Sprintf("recurring-defects-%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return Result{}, fmt.Errorf("unsupported export format %q", format)
	}
}

func renderCSV(rows []analysis.ClassifiedDefect) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(listHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.DefectCode,
			string(row.Status),
			strconv.Itoa(row.NumWeeks),
			strconv.Itoa(row.NumLots),
			row.FirstSeen.Format(dateLayout),
			row.LastSeen.Format(dateLayout),
			strconv.Itoa(row.TotalQty),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows []analysis.ClassifiedDefect) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]any, len(listHeader))
	for i, cell := range listHeader {
		header[i] = cell
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for idx, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell reference: %w", err)
		}
		values := []any{
			row.DefectCode,
			string(row.Status),
			row.NumWeeks,
			row.NumLots,
			row.FirstSeen.Format(dateLayout),
			row.LastSeen.Format(dateLayout),
			row.TotalQty,
		}
		if err := f.SetSheetRow(sheetName, cellRef, &values); err != nil {
			return nil, fmt.Errorf("failed to write xlsx row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
