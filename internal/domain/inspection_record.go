package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InspectionRecord is one inspection event: a lot was inspected on a date
// and a quantity of one defect type was counted. Records are created by
// data import and never mutated afterwards; deletion only happens via
// cascade from the parent lot or defect.
type InspectionRecord struct {
	ID             uuid.UUID `json:"id"`
	InspectionID   string    `json:"inspection_id"`
	DefectCode     string    `json:"defect_code"`
	LotID          string    `json:"lot_id"`
	InspectionDate time.Time `json:"inspection_date"`
	QtyDefects     int       `json:"qty_defects"`
	IsDataComplete bool      `json:"is_data_complete"`
}

// InvalidRecordError reports an inspection record that violates a domain
// invariant. Such records must never be coerced into aggregates.
type InvalidRecordError struct {
	InspectionID string `json:"inspection_id"`
	DefectCode   string `json:"defect_code"`
	LotID        string `json:"lot_id"`
	Reason       string `json:"reason"`
}

func (e *InvalidRecordError) Error() string {
	id := e.InspectionID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("invalid inspection record %s: %s", id, e.Reason)
}

// Validate checks the record against the domain invariants and returns an
// *InvalidRecordError describing the first violation found.
func (r InspectionRecord) Validate() error {
	if strings.TrimSpace(r.DefectCode) == "" {
		return r.invalid("missing defect code")
	}
	if strings.TrimSpace(r.LotID) == "" {
		return r.invalid("missing lot id")
	}
	if r.InspectionDate.IsZero() {
		return r.invalid("missing inspection date")
	}
	if r.QtyDefects < 0 {
		return r.invalid(fmt.Sprintf("negative defect quantity %d", r.QtyDefects))
	}
	return nil
}

func (r InspectionRecord) invalid(reason string) *InvalidRecordError {
	return &InvalidRecordError{
		InspectionID: r.InspectionID,
		DefectCode:   r.DefectCode,
		LotID:        r.LotID,
		Reason:       reason,
	}
}

// DateRange is an inclusive calendar date filter. A nil *DateRange means
// no restriction.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether the given date falls inside the range.
func (dr DateRange) Contains(date time.Time) bool {
	return !date.Before(dr.From) && !date.After(dr.To)
}
