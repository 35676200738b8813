package analysis

import (
	"sort"

	"github.com/rpattn/defectwatch/internal/domain"
)

// ClassifiedDefect is one row of the list view: a defect summary together
// with its recurrence status.
type ClassifiedDefect struct {
	domain.DefectSummary
	Status domain.DefectStatus `json:"status"`
}

// rankPriority maps each status to its list-view priority. Recurring
// defects surface first, incomplete-data defects second so they are not
// buried under known non-recurring ones.
func rankPriority(status domain.DefectStatus) int {
	switch status {
	case domain.StatusRecurring:
		return 1
	case domain.StatusInsufficientData:
		return 2
	default:
		return 3
	}
}

// Rank orders classified defects for presentation: priority ascending,
// then num_weeks descending, then num_lots descending. Rows tied on all
// three keys fall back to defect code ascending so the order is
// deterministic for any given input.
func Rank(rows []ClassifiedDefect) {
	sort.Slice(rows, func(i, j int) bool {
		pi, pj := rankPriority(rows[i].Status), rankPriority(rows[j].Status)
		if pi != pj {
			return pi < pj
		}
		if rows[i].NumWeeks != rows[j].NumWeeks {
			return rows[i].NumWeeks > rows[j].NumWeeks
		}
		if rows[i].NumLots != rows[j].NumLots {
			return rows[i].NumLots > rows[j].NumLots
		}
		return rows[i].DefectCode < rows[j].DefectCode
	})
}
