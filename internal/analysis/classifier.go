package analysis

import "github.com/rpattn/defectwatch/internal/domain"

// Classify applies the recurrence decision rule to one defect summary.
//
// The precedence is fixed: completeness is evaluated before the recurrence
// condition, so a defect with incomplete data is never reported as
// recurring no matter how many weeks and lots it spans. Recurrence itself
// requires spread across weeks AND lots jointly; many lots within a single
// week, or many weeks within a single lot, stay not-recurring.
func Classify(summary domain.DefectSummary) domain.DefectStatus {
	if !summary.DataIsComplete {
		return domain.StatusInsufficientData
	}
	if summary.NumWeeks > 1 && summary.NumLots > 1 {
		return domain.StatusRecurring
	}
	return domain.StatusNotRecurring
}
