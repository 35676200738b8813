package analysis

import (
	"sort"
	"time"

	"github.com/rpattn/defectwatch/internal/domain"
)

// WeeklyBreakdown is one row of the drill-down view: all qualifying
// activity for a defect within one calendar week.
type WeeklyBreakdown struct {
	WeekStart  time.Time `json:"week_start"`
	Lots       []string  `json:"lots"`
	TotalQty   int       `json:"total_qty"`
	IsComplete bool      `json:"is_complete"`
}

type weekAccumulator struct {
	lots     map[string]struct{}
	totalQty int
	complete bool
}

// BreakdownByWeek produces the weekly drill-down for the records of one
// defect: per calendar week with at least one qualifying record, the
// distinct lots affected, the summed quantity, and the AND of record
// completeness within that week. Zero-quantity records are excluded
// exactly as in Summarize. Weeks are ordered by start date descending for
// presentation; lots within a week are sorted ascending.
func BreakdownByWeek(records []domain.InspectionRecord, opts SummarizeOptions) ([]WeeklyBreakdown, []domain.InvalidRecordError, error) {
	weeks := make(map[time.Time]*weekAccumulator)
	var rejected []domain.InvalidRecordError

	for _, record := range records {
		if err := record.Validate(); err != nil {
			if !opts.SkipInvalid {
				return nil, nil, err
			}
			invalid := err.(*domain.InvalidRecordError)
			rejected = append(rejected, *invalid)
			continue
		}
		if record.QtyDefects == 0 {
			continue
		}

		start := WeekStart(record.InspectionDate)
		acc, ok := weeks[start]
		if !ok {
			acc = &weekAccumulator{
				lots:     make(map[string]struct{}),
				complete: true,
			}
			weeks[start] = acc
		}
		acc.lots[record.LotID] = struct{}{}
		acc.totalQty += record.QtyDefects
		acc.complete = acc.complete && record.IsDataComplete
	}

	breakdown := make([]WeeklyBreakdown, 0, len(weeks))
	for start, acc := range weeks {
		lots := make([]string, 0, len(acc.lots))
		for lot := range acc.lots {
			lots = append(lots, lot)
		}
		sort.Strings(lots)

		breakdown = append(breakdown, WeeklyBreakdown{
			WeekStart:  start,
			Lots:       lots,
			TotalQty:   acc.totalQty,
			IsComplete: acc.complete,
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].WeekStart.After(breakdown[j].WeekStart)
	})

	return breakdown, rejected, nil
}
