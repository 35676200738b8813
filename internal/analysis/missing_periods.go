package analysis

import (
	"time"

	"github.com/rpattn/defectwatch/internal/domain"
)

// Reasons a week can be flagged as a missing period.
const (
	MissingReasonNoRecords      = "no records"
	MissingReasonIncompleteData = "incomplete data"
)

// MissingPeriod marks one calendar week whose data cannot be trusted for
// classification: either no inspection records exist for the week at all,
// or at least one record in it is flagged incomplete.
type MissingPeriod struct {
	WeekStart time.Time `json:"week_start"`
	Reason    string    `json:"reason"`
}

// MissingPeriods walks every calendar week of [from, to] and reports the
// data gaps among the given records, ordered by week start ascending.
//
// Unlike the defect metrics, presence here counts every record including
// zero-quantity ones: a zero-count inspection still proves the week was
// inspected. This is a data-quality view, not a defect measure.
func MissingPeriods(records []domain.InspectionRecord, from, to time.Time) []MissingPeriod {
	if to.Before(from) {
		return nil
	}

	type weekState struct {
		present    bool
		incomplete bool
	}
	states := make(map[time.Time]*weekState)
	for _, record := range records {
		start := WeekStart(record.InspectionDate)
		state, ok := states[start]
		if !ok {
			state = &weekState{}
			states[start] = state
		}
		state.present = true
		if !record.IsDataComplete {
			state.incomplete = true
		}
	}

	var periods []MissingPeriod
	last := WeekStart(to)
	for start := WeekStart(from); !start.After(last); start = start.AddDate(0, 0, 7) {
		state, ok := states[start]
		switch {
		case !ok || !state.present:
			periods = append(periods, MissingPeriod{WeekStart: start, Reason: MissingReasonNoRecords})
		case state.incomplete:
			periods = append(periods, MissingPeriod{WeekStart: start, Reason: MissingReasonIncompleteData})
		}
	}

	return periods
}
