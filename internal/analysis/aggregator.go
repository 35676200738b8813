package analysis

import (
	"sort"
	"time"

	"github.com/rpattn/defectwatch/internal/domain"
)

// SummarizeOptions controls how invalid records are handled during
// aggregation. The default (zero value) fails the whole pass on the first
// invalid record; with SkipInvalid the record is left out and reported in
// the result instead.
type SummarizeOptions struct {
	SkipInvalid bool
}

// SummarizeResult carries the per-defect summaries plus any records
// rejected under SkipInvalid.
type SummarizeResult struct {
	Summaries []domain.DefectSummary
	Rejected  []domain.InvalidRecordError
}

type defectAccumulator struct {
	weeks     map[time.Time]struct{}
	lots      map[string]struct{}
	firstSeen time.Time
	lastSeen  time.Time
	totalQty  int
	complete  bool
}

// Summarize groups inspection records by defect code and computes one
// DefectSummary per defect that has at least one qualifying record.
//
// Records with qty_defects == 0 are excluded from every metric: they count
// toward neither weeks, lots, totals nor the completeness flag. Defects
// left with no qualifying records are omitted from the output entirely.
// Summaries are returned sorted by defect code so repeated runs over the
// same snapshot produce identical output.
func Summarize(records []domain.InspectionRecord, opts SummarizeOptions) (SummarizeResult, error) {
	result := SummarizeResult{}
	groups := make(map[string]*defectAccumulator)

	for _, record := range records {
		if err := record.Validate(); err != nil {
			if !opts.SkipInvalid {
				return SummarizeResult{}, err
			}
			invalid := err.(*domain.InvalidRecordError)
			result.Rejected = append(result.Rejected, *invalid)
			continue
		}
		if record.QtyDefects == 0 {
			continue
		}

		acc, ok := groups[record.DefectCode]
		if !ok {
			acc = &defectAccumulator{
				weeks:     make(map[time.Time]struct{}),
				lots:      make(map[string]struct{}),
				firstSeen: record.InspectionDate,
				lastSeen:  record.InspectionDate,
				complete:  true,
			}
			groups[record.DefectCode] = acc
		}

		acc.weeks[WeekStart(record.InspectionDate)] = struct{}{}
		acc.lots[record.LotID] = struct{}{}
		acc.totalQty += record.QtyDefects
		acc.complete = acc.complete && record.IsDataComplete
		if record.InspectionDate.Before(acc.firstSeen) {
			acc.firstSeen = record.InspectionDate
		}
		if record.InspectionDate.After(acc.lastSeen) {
			acc.lastSeen = record.InspectionDate
		}
	}

	result.Summaries = make([]domain.DefectSummary, 0, len(groups))
	for defectCode, acc := range groups {
		result.Summaries = append(result.Summaries, domain.DefectSummary{
			DefectCode:     defectCode,
			NumWeeks:       len(acc.weeks),
			NumLots:        len(acc.lots),
			FirstSeen:      acc.firstSeen,
			LastSeen:       acc.lastSeen,
			TotalQty:       acc.totalQty,
			DataIsComplete: acc.complete,
		})
	}

	sort.Slice(result.Summaries, func(i, j int) bool {
		return result.Summaries[i].DefectCode < result.Summaries[j].DefectCode
	})

	return result, nil
}
