package domain

import "time"

// DefectStatus is the recurrence classification of one defect code.
type DefectStatus string

const (
	StatusRecurring        DefectStatus = "RECURRING"
	StatusNotRecurring     DefectStatus = "NOT_RECURRING"
	StatusInsufficientData DefectStatus = "INSUFFICIENT_DATA"
)

// DefectSummary is the derived aggregate for one defect code, computed
// from its qualifying inspection records (qty_defects > 0). It is never
// persisted.
//
// DataIsComplete is the logical AND of is_data_complete across the
// qualifying records; records excluded by the zero-quantity rule do not
// influence it.
type DefectSummary struct {
	DefectCode     string    `json:"defect_code"`
	NumWeeks       int       `json:"num_weeks"`
	NumLots        int       `json:"num_lots"`
	FirstSeen      time.Time `json:"first_seen"`
	LastSeen       time.Time `json:"last_seen"`
	TotalQty       int       `json:"total_qty"`
	DataIsComplete bool      `json:"data_is_complete"`
}
