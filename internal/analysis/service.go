package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpattn/defectwatch/internal/domain"
	"github.com/rpattn/defectwatch/internal/repository"
)

// Service runs the recurring-defect analysis over a Record Store handle.
// Each call fetches its own snapshot and computes summaries functionally,
// so concurrent requests never share mutable state. Fetch errors from the
// repository propagate to the caller unchanged; the service performs no
// retries or logging of its own.
type Service struct {
	records repository.InspectionRepository
	opts    SummarizeOptions
}

// Option customizes service behavior.
type Option func(*Service)

// WithSkipInvalid makes the service skip invariant-violating records and
// report them alongside the result instead of failing the whole pass.
func WithSkipInvalid() Option {
	return func(s *Service) {
		s.opts.SkipInvalid = true
	}
}

// NewService creates a new analysis service bound to the given Record Store.
func NewService(records repository.InspectionRepository, opts ...Option) *Service {
	service := &Service{records: records}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// DefectList is the result of a list-view analysis pass.
type DefectList struct {
	Rows     []ClassifiedDefect          `json:"rows"`
	Rejected []domain.InvalidRecordError `json:"rejected,omitempty"`
}

// DefectDetail is the drill-down view for a single defect code: the weekly
// breakdown plus the underlying raw inspection records.
type DefectDetail struct {
	DefectCode string                      `json:"defect_code"`
	Weeks      []WeeklyBreakdown           `json:"weeks"`
	Records    []domain.InspectionRecord   `json:"records"`
	Rejected   []domain.InvalidRecordError `json:"rejected,omitempty"`
}

// DefectList fetches all inspection records in the range, aggregates them
// per defect, classifies each summary, and ranks the rows for the list view.
func (s *Service) DefectList(ctx context.Context, dateRange *domain.DateRange) (DefectList, error) {
	records, err := s.records.ListByDateRange(ctx, dateRange)
	if err != nil {
		return DefectList{}, err
	}

	summarized, err := Summarize(records, s.opts)
	if err != nil {
		return DefectList{}, err
	}

	rows := make([]ClassifiedDefect, len(summarized.Summaries))
	for i, summary := range summarized.Summaries {
		rows[i] = ClassifiedDefect{
			DefectSummary: summary,
			Status:        Classify(summary),
		}
	}
	Rank(rows)

	return DefectList{Rows: rows, Rejected: summarized.Rejected}, nil
}

// DefectDetail fetches the records of one defect code and builds its
// weekly drill-down. A defect with no qualifying records yields an empty
// breakdown, not an error.
func (s *Service) DefectDetail(ctx context.Context, defectCode string, dateRange *domain.DateRange) (DefectDetail, error) {
	defectCode = strings.TrimSpace(defectCode)
	if defectCode == "" {
		return DefectDetail{}, fmt.Errorf("defect code is required")
	}

	records, err := s.records.ListByDefect(ctx, defectCode, dateRange)
	if err != nil {
		return DefectDetail{}, err
	}

	weeks, rejected, err := BreakdownByWeek(records, s.opts)
	if err != nil {
		return DefectDetail{}, err
	}

	return DefectDetail{
		DefectCode: defectCode,
		Weeks:      weeks,
		Records:    records,
		Rejected:   rejected,
	}, nil
}

// MissingPeriodsFor reports the data gaps for one defect code across the
// given range. The range is required because gaps are defined against the
// weeks the caller expected data for.
func (s *Service) MissingPeriodsFor(ctx context.Context, defectCode string, dateRange domain.DateRange) ([]MissingPeriod, error) {
	defectCode = strings.TrimSpace(defectCode)
	if defectCode == "" {
		return nil, fmt.Errorf("defect code is required")
	}

	records, err := s.records.ListByDefect(ctx, defectCode, &dateRange)
	if err != nil {
		return nil, err
	}

	return MissingPeriods(records, dateRange.From, dateRange.To), nil
}
