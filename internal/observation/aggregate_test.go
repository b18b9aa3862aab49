package observation

import (
	"strings"
	"testing"
	"time"

	"github.com/haneulclass/saengibu-backend/internal/keyword"
)

func newAggregator(t *testing.T) *Aggregator {
	t.Helper()
	catalog, err := keyword.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return NewAggregator(catalog, nil)
}

func sel(keywordID, categoryID string, intensity int, at time.Time) SelectedKeyword {
	return SelectedKeyword{KeywordID: keywordID, CategoryID: categoryID, Intensity: intensity, Timestamp: at}
}

func TestCombinationConsumesKeywords(t *testing.T) {
	a := newAggregator(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	res := a.Clauses(StudentObservation{
		StudentName: "김철수",
		SelectedKeywords: []SelectedKeyword{
			sel("focus", "learning_attitude", 2, base),
			sel("task_complete", "task_performance", 2, base.Add(time.Minute)),
		},
	})
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings: %v", res.Warnings)
	}
	if len(res.Clauses) != 1 {
		t.Fatalf("clauses=%d, want 1 combination sentence: %v", len(res.Clauses), res.Clauses)
	}
	// The pair maps to one pre-written sentence; the individual auto texts
	// must not appear alongside it.
	if strings.Contains(res.Clauses[0], "바른 자세로 집중") {
		t.Fatalf("primary auto text leaked into output: %q", res.Clauses[0])
	}
}

func TestUnmatchedSelectionsKeepAutoText(t *testing.T) {
	a := newAggregator(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// focus alone has no combination partner selected.
	res := a.Clauses(StudentObservation{
		StudentName: "김철수",
		SelectedKeywords: []SelectedKeyword{
			sel("focus", "learning_attitude", 2, base),
		},
	})
	if len(res.Clauses) != 1 {
		t.Fatalf("clauses=%d: %v", len(res.Clauses), res.Clauses)
	}
	if res.Clauses[0] != "수업 시간에 바른 자세로 집중하여 학습에 임함" {
		t.Fatalf("clause=%q", res.Clauses[0])
	}
}

func TestCategoryThenTimestampOrder(t *testing.T) {
	a := newAggregator(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Selected out of order on purpose: questioning (participation, order 2)
	// must come after curiosity (learning_attitude, order 1) regardless of
	// selection time.
	res := a.Clauses(StudentObservation{
		StudentName: "이영희",
		SelectedKeywords: []SelectedKeyword{
			sel("questioning", "participation", 2, base),
			sel("curiosity", "learning_attitude", 2, base.Add(time.Hour)),
		},
	})
	if len(res.Clauses) != 2 {
		t.Fatalf("clauses=%d: %v", len(res.Clauses), res.Clauses)
	}
	if !strings.Contains(res.Clauses[0], "호기심") {
		t.Fatalf("first clause should be the learning_attitude one: %v", res.Clauses)
	}
	if !strings.Contains(res.Clauses[1], "질문") {
		t.Fatalf("second clause should be the participation one: %v", res.Clauses)
	}
}

func TestIntensityModifiers(t *testing.T) {
	a := newAggregator(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		intensity int
		prefix    string
	}{
		{1, "가끔 "},
		{2, ""},
		{3, "꾸준히 "},
		{7, ""}, // out-of-range falls back to neutral
	}
	for _, tc := range cases {
		res := a.Clauses(StudentObservation{
			StudentName: "박민수",
			SelectedKeywords: []SelectedKeyword{
				sel("curiosity", "learning_attitude", tc.intensity, base),
			},
		})
		if len(res.Clauses) != 1 {
			t.Fatalf("intensity %d: clauses=%v", tc.intensity, res.Clauses)
		}
		want := tc.prefix + "새로운 내용에 호기심을 갖고 능동적으로 탐구함"
		if res.Clauses[0] != want {
			t.Fatalf("intensity %d: clause=%q, want %q", tc.intensity, res.Clauses[0], want)
		}
	}
}

func TestUnknownKeywordWarnsAndContinues(t *testing.T) {
	a := newAggregator(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	res := a.Clauses(StudentObservation{
		StudentName: "최수진",
		SelectedKeywords: []SelectedKeyword{
			sel("ghost_keyword", "learning_attitude", 2, base),
			sel("curiosity", "learning_attitude", 2, base.Add(time.Minute)),
		},
	})
	if len(res.Clauses) != 1 {
		t.Fatalf("valid selection should still render: %v", res.Clauses)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "ghost_keyword") {
		t.Fatalf("warnings=%v", res.Warnings)
	}
}

func TestDuplicateSelectionRenderedOnce(t *testing.T) {
	a := newAggregator(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	res := a.Clauses(StudentObservation{
		StudentName: "정다은",
		SelectedKeywords: []SelectedKeyword{
			sel("curiosity", "learning_attitude", 2, base),
			sel("curiosity", "learning_attitude", 3, base.Add(time.Minute)),
		},
	})
	if len(res.Clauses) != 1 {
		t.Fatalf("duplicate keyword must render once: %v", res.Clauses)
	}
}
