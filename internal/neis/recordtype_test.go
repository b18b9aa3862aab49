package neis

import (
	"encoding/json"
	"testing"
)

func TestParseRecordType(t *testing.T) {
	got, err := ParseRecordType("행동특성 및 종합의견")
	if err != nil {
		t.Fatalf("ParseRecordType: %v", err)
	}
	if got != BehaviorSummary {
		t.Fatalf("got %v", got)
	}

	if _, err := ParseRecordType("성적"); err == nil {
		t.Fatal("expected error for unknown label")
	}
}

func TestRecordTypeJSON(t *testing.T) {
	b, err := json.Marshal(SubjectProgress)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"교과학습발달상황"` {
		t.Fatalf("marshal=%s", b)
	}

	var rt RecordType
	if err := json.Unmarshal([]byte(`"창의적 체험활동 누가기록"`), &rt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rt != CreativeActivity {
		t.Fatalf("rt=%v", rt)
	}

	if _, err := json.Marshal(RecordType(99)); err == nil {
		t.Fatal("invalid record type must not marshal")
	}
}

func TestHasValidEnding(t *testing.T) {
	r := DefaultRules()
	for _, ok := range []string{"학습에 임함", "탐구함.", "습관이 형성되어 있음", "지각이 없음.", "   "} {
		if !r.HasValidEnding(ok) {
			t.Fatalf("%q should pass", ok)
		}
	}
	for _, bad := range []string{"열심히 했습니다", "참여했어요", "잘한다"} {
		if r.HasValidEnding(bad) {
			t.Fatalf("%q should fail", bad)
		}
	}
}
