package analysis

import (
	"testing"

	"github.com/rpattn/defectwatch/internal/domain"
)

func classified(code string, status domain.DefectStatus, weeks, lots int) ClassifiedDefect {
	return ClassifiedDefect{
		DefectSummary: domain.DefectSummary{DefectCode: code, NumWeeks: weeks, NumLots: lots},
		Status:        status,
	}
}

func TestRankOrdersByPriorityThenSpread(t *testing.T) {
	rows := []ClassifiedDefect{
		classified("DEF-010", domain.StatusNotRecurring, 9, 9),
		classified("DEF-011", domain.StatusInsufficientData, 1, 1),
		classified("DEF-012", domain.StatusRecurring, 2, 2),
		classified("DEF-013", domain.StatusRecurring, 4, 2),
		classified("DEF-014", domain.StatusRecurring, 4, 6),
	}

	Rank(rows)

	wantOrder := []string{"DEF-014", "DEF-013", "DEF-012", "DEF-011", "DEF-010"}
	for i, want := range wantOrder {
		if rows[i].DefectCode != want {
			t.Fatalf("position %d: got %s, want %s (full order: %v)", i, rows[i].DefectCode, want, codes(rows))
		}
	}
}

func TestRankSortedByThreeKeyTupleForAllAdjacentPairs(t *testing.T) {
	rows := []ClassifiedDefect{
		classified("DEF-001", domain.StatusNotRecurring, 1, 4),
		classified("DEF-002", domain.StatusInsufficientData, 3, 1),
		classified("DEF-003", domain.StatusRecurring, 2, 5),
		classified("DEF-004", domain.StatusInsufficientData, 3, 7),
		classified("DEF-005", domain.StatusRecurring, 6, 2),
		classified("DEF-006", domain.StatusNotRecurring, 1, 1),
	}

	Rank(rows)

	for i := 0; i+1 < len(rows); i++ {
		a, b := rows[i], rows[i+1]
		pa, pb := rankPriority(a.Status), rankPriority(b.Status)
		switch {
		case pa < pb:
		case pa > pb:
			t.Fatalf("adjacent pair %d: priority order violated (%s before %s)", i, a.DefectCode, b.DefectCode)
		case a.NumWeeks > b.NumWeeks:
		case a.NumWeeks < b.NumWeeks:
			t.Fatalf("adjacent pair %d: num_weeks order violated (%s before %s)", i, a.DefectCode, b.DefectCode)
		case a.NumLots < b.NumLots:
			t.Fatalf("adjacent pair %d: num_lots order violated (%s before %s)", i, a.DefectCode, b.DefectCode)
		}
	}
}

func TestRankFullTiesFallBackToDefectCode(t *testing.T) {
	rows := []ClassifiedDefect{
		classified("DEF-200", domain.StatusRecurring, 2, 2),
		classified("DEF-100", domain.StatusRecurring, 2, 2),
		classified("DEF-300", domain.StatusRecurring, 2, 2),
	}

	Rank(rows)

	wantOrder := []string{"DEF-100", "DEF-200", "DEF-300"}
	for i, want := range wantOrder {
		if rows[i].DefectCode != want {
			t.Fatalf("tied rows must order by defect code: got %v", codes(rows))
		}
	}
}

func codes(rows []ClassifiedDefect) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.DefectCode
	}
	return out
}
