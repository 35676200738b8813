package analysis

import (
	"testing"

	"github.com/rpattn/defectwatch/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		summary domain.DefectSummary
		want    domain.DefectStatus
	}{
		{
			name:    "multiple weeks and lots is recurring",
			summary: domain.DefectSummary{NumWeeks: 2, NumLots: 2, DataIsComplete: true},
			want:    domain.StatusRecurring,
		},
		{
			name:    "single record is not recurring",
			summary: domain.DefectSummary{NumWeeks: 1, NumLots: 1, DataIsComplete: true},
			want:    domain.StatusNotRecurring,
		},
		{
			name:    "many lots in one week is not recurring",
			summary: domain.DefectSummary{NumWeeks: 1, NumLots: 5, DataIsComplete: true},
			want:    domain.StatusNotRecurring,
		},
		{
			name:    "many weeks in one lot is not recurring",
			summary: domain.DefectSummary{NumWeeks: 5, NumLots: 1, DataIsComplete: true},
			want:    domain.StatusNotRecurring,
		},
		{
			name:    "incomplete data wins over recurrence",
			summary: domain.DefectSummary{NumWeeks: 4, NumLots: 4, DataIsComplete: false},
			want:    domain.StatusInsufficientData,
		},
		{
			name:    "incomplete data wins over single record",
			summary: domain.DefectSummary{NumWeeks: 1, NumLots: 1, DataIsComplete: false},
			want:    domain.StatusInsufficientData,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.summary); got != tc.want {
				t.Errorf("Classify(%+v) = %s, want %s", tc.summary, got, tc.want)
			}
		})
	}
}

func TestClassifyRecurringIffBothSpreadConditions(t *testing.T) {
	for weeks := 0; weeks <= 3; weeks++ {
		for lots := 0; lots <= 3; lots++ {
			summary := domain.DefectSummary{NumWeeks: weeks, NumLots: lots, DataIsComplete: true}
			got := Classify(summary)
			want := domain.StatusNotRecurring
			if weeks > 1 && lots > 1 {
				want = domain.StatusRecurring
			}
			if got != want {
				t.Errorf("weeks=%d lots=%d: got %s, want %s", weeks, lots, got, want)
			}
		}
	}
}
