package batch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/haneulclass/saengibu-backend/internal/assemble"
	"github.com/haneulclass/saengibu-backend/internal/compliance"
	"github.com/haneulclass/saengibu-backend/internal/keyword"
	"github.com/haneulclass/saengibu-backend/internal/neis"
	"github.com/haneulclass/saengibu-backend/internal/observation"
	"github.com/haneulclass/saengibu-backend/internal/prompt"
)

// fakeGenerator fails on a fixed call index and otherwise returns canned text.
type fakeGenerator struct {
	calls   int
	failOn  int // 1-based call number; 0 disables
	failErr error
	text    string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.failOn != 0 && g.calls == g.failOn {
		return "", g.failErr
	}
	return g.text, nil
}

func newOrchestrator(t *testing.T, gen Generator, delay time.Duration) *Orchestrator {
	t.Helper()
	catalog, err := keyword.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	rules := neis.DefaultRules()
	assembler := assemble.NewAssembler(observation.NewAggregator(catalog, nil), rules)
	composer, err := prompt.NewComposer(rules)
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}
	return NewOrchestrator(assembler, composer, gen, compliance.NewValidator(rules), NewThrottle(delay), nil)
}

func sharedParams() assemble.Params {
	return assemble.Params{
		RecordType:   neis.SubjectProgress,
		ClassName:    "3학년 2반",
		TeacherNotes: "수업에 적극적으로 참여함",
	}
}

func TestRunProcessesAllStudentsInOrder(t *testing.T) {
	gen := &fakeGenerator{text: "수업에 성실히 참여하며 학습 내용을 잘 이해함."}
	o := newOrchestrator(t, gen, 0)

	students := []string{"김철수", "이영희", "박민수"}
	var progressed []string
	run, err := o.Run(context.Background(), sharedParams(), students, func(run *Run, last StudentResult) {
		progressed = append(progressed, last.Student)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if run.Total != 3 || run.Completed != 3 || run.Failed != 0 {
		t.Fatalf("totals=%d/%d/%d", run.Total, run.Completed, run.Failed)
	}
	if len(run.Results) != 3 {
		t.Fatalf("results=%d", len(run.Results))
	}
	for i, student := range students {
		if run.Results[i].Student != student {
			t.Fatalf("result %d is %q, want input order preserved", i, run.Results[i].Student)
		}
		if run.Results[i].Status != StatusSuccess {
			t.Fatalf("result %d status=%q", i, run.Results[i].Status)
		}
		if run.Results[i].Validation == nil {
			t.Fatalf("result %d missing validation", i)
		}
	}
	if len(progressed) != 3 || progressed[1] != "이영희" {
		t.Fatalf("progress callbacks=%v", progressed)
	}
	if run.ID == uuid.Nil {
		t.Fatal("run needs an id")
	}
	if run.FinishedAt.Before(run.StartedAt) {
		t.Fatal("finishedAt before startedAt")
	}
}

func TestRunRecordsFailureAndContinues(t *testing.T) {
	gen := &fakeGenerator{
		text:    "수업에 성실히 참여하며 학습 내용을 잘 이해함.",
		failOn:  2,
		failErr: errors.New("upstream error: status=429 body=rate limited"),
	}
	o := newOrchestrator(t, gen, 0)

	run, err := o.Run(context.Background(), sharedParams(), []string{"김철수", "이영희", "박민수"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if run.Completed != 2 || run.Failed != 1 {
		t.Fatalf("completed=%d failed=%d", run.Completed, run.Failed)
	}
	second := run.Results[1]
	if second.Student != "이영희" || second.Status != StatusError {
		t.Fatalf("second result=%+v", second)
	}
	if !strings.Contains(second.Error, "rate limited") {
		t.Fatalf("error=%q", second.Error)
	}
	if second.Content != "" {
		t.Fatalf("failed student must carry no content: %q", second.Content)
	}
	// The third student still ran.
	if run.Results[2].Status != StatusSuccess {
		t.Fatalf("third result=%+v", run.Results[2])
	}
}

func TestNonCompliantGenerationStillSucceeds(t *testing.T) {
	// 합니다-style text violates the ending rule but generation itself worked.
	gen := &fakeGenerator{text: "수업에 열심히 참여했습니다."}
	o := newOrchestrator(t, gen, 0)

	run, err := o.Run(context.Background(), sharedParams(), []string{"김철수"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	res := run.Results[0]
	if res.Status != StatusSuccess {
		t.Fatalf("status=%q, non-compliance is not a failure", res.Status)
	}
	if res.Validation == nil || res.Validation.IsValid {
		t.Fatalf("validation=%+v, want recorded violations", res.Validation)
	}
}

func TestRunStopsBetweenStudentsOnCancel(t *testing.T) {
	gen := &fakeGenerator{text: "수업에 성실히 참여하며 학습 내용을 잘 이해함."}
	o := newOrchestrator(t, gen, 0)

	ctx, cancel := context.WithCancel(context.Background())
	run, err := o.Run(ctx, sharedParams(), []string{"김철수", "이영희", "박민수"}, func(run *Run, last StudentResult) {
		if last.Student == "김철수" {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
	if len(run.Results) != 1 {
		t.Fatalf("results=%d, cancellation must stop before the next student", len(run.Results))
	}
	if run.FinishedAt.IsZero() {
		t.Fatal("cancelled run still needs a finish time")
	}
}

func TestAssembleFailureIsPerStudent(t *testing.T) {
	gen := &fakeGenerator{text: "수업에 성실히 참여하며 학습 내용을 잘 이해함."}
	o := newOrchestrator(t, gen, 0)

	// No teacher notes and no observations: every student trips the
	// minimum-input check without any upstream call.
	params := assemble.Params{RecordType: neis.SubjectProgress, ClassName: "3학년 2반"}
	run, err := o.Run(context.Background(), params, []string{"김철수", "이영희"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Failed != 2 || run.Completed != 0 {
		t.Fatalf("completed=%d failed=%d", run.Completed, run.Failed)
	}
	if gen.calls != 0 {
		t.Fatalf("generator called %d times, want 0", gen.calls)
	}
}

func TestWriteExport(t *testing.T) {
	run := &Run{
		ClassName:  "3학년 2반",
		RecordType: neis.SubjectProgress,
		FinishedAt: time.Date(2026, 7, 15, 14, 30, 0, 0, time.UTC),
		Results: []StudentResult{
			{Student: "김철수", Status: StatusSuccess, Content: "수학 개념을 정확히 이해함."},
			{Student: "이영희", Status: StatusError, Error: "upstream error"},
			{Student: "박민수", Status: StatusSuccess, Content: "과제를 성실히 수행함."},
		},
	}

	var b strings.Builder
	if err := WriteExport(&b, run); err != nil {
		t.Fatalf("WriteExport: %v", err)
	}
	out := b.String()

	want := "[3학년 2반 교과학습발달상황]\n" +
		"생성일시: 2026-07-15 14:30\n\n" +
		"[김철수]\n수학 개념을 정확히 이해함.\n\n---\n\n" +
		"[박민수]\n과제를 성실히 수행함.\n\n---\n\n"
	if out != want {
		t.Fatalf("export mismatch:\n%q\nwant:\n%q", out, want)
	}
	if strings.Contains(out, "이영희") {
		t.Fatal("failed students must not appear in the export")
	}
}

func TestThrottleWait(t *testing.T) {
	th := NewThrottle(10 * time.Millisecond)

	start := time.Now()
	if err := th.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatal("Wait returned early")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewThrottle(time.Hour).Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}
