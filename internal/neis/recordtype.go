package neis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecordType selects which prompt template and which compliance checks apply
// to a generated record.
type RecordType int

const (
	SubjectProgress RecordType = iota
	CreativeActivity
	BehaviorSummary
)

const (
	labelSubjectProgress  = "교과학습발달상황"
	labelCreativeActivity = "창의적 체험활동 누가기록"
	labelBehaviorSummary  = "행동특성 및 종합의견"
)

func (t RecordType) Label() string {
	switch t {
	case SubjectProgress:
		return labelSubjectProgress
	case CreativeActivity:
		return labelCreativeActivity
	case BehaviorSummary:
		return labelBehaviorSummary
	default:
		return fmt.Sprintf("RecordType(%d)", int(t))
	}
}

func (t RecordType) String() string { return t.Label() }

func (t RecordType) Valid() bool {
	switch t {
	case SubjectProgress, CreativeActivity, BehaviorSummary:
		return true
	default:
		return false
	}
}

// ParseRecordType accepts the NEIS display label.
func ParseRecordType(s string) (RecordType, error) {
	switch strings.TrimSpace(s) {
	case labelSubjectProgress:
		return SubjectProgress, nil
	case labelCreativeActivity:
		return CreativeActivity, nil
	case labelBehaviorSummary:
		return BehaviorSummary, nil
	default:
		return 0, fmt.Errorf("unknown record type: %q", s)
	}
}

func (t RecordType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid record type: %d", int(t))
	}
	return json.Marshal(t.Label())
}

func (t *RecordType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRecordType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
