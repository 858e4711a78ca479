package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "finwise.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{tableProgress, tableLessonEvent, tableQuizEvent, tableLLMEvent, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finwise.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendLessonEvent(ctx, LessonEventData{SessionID: "s", LessonID: "1", Action: ActionStart}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	events, err := s.EventRepo().QueryLessonEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("events after reopen = %d, want 1", len(events))
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSequenceSharedAcrossEventTypes(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLessonEvent(ctx, LessonEventData{SessionID: "s1", LessonID: "1", Action: ActionStart}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendQuizAnswer(ctx, QuizAnswerEventData{SessionID: "s1", LessonID: "1", PageID: "q", OptionID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Purpose: "explain", Success: true}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendLessonEvent(ctx, LessonEventData{SessionID: "s1", LessonID: "1", Action: ActionComplete}); err != nil {
		t.Fatal(err)
	}

	events, err := repo.QueryLessonEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("lesson events = %d, want 2", len(events))
	}
	if events[0].Sequence != 1 || events[1].Sequence != 4 {
		t.Errorf("sequences = %d, %d; want 1, 4", events[0].Sequence, events[1].Sequence)
	}
}

func TestQueryLessonEventsFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, id := range []string{"1", "2", "1", "3", "1"} {
		err := repo.AppendLessonEvent(ctx, LessonEventData{
			SessionID: "s", UserID: "sam", LessonID: id, Action: ActionStart, PageIndex: i,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.QueryLessonEvents(ctx, QueryOpts{LessonID: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("LessonID filter = %d events, want 3", len(got))
	}

	got, _ = repo.QueryLessonEvents(ctx, QueryOpts{After: 2, Limit: 2})
	if len(got) != 2 || got[0].Sequence != 3 {
		t.Errorf("After/Limit = %+v", got)
	}

	got, _ = repo.QueryLessonEvents(ctx, QueryOpts{UserID: "nobody"})
	if len(got) != 0 {
		t.Errorf("UserID filter = %d events, want 0", len(got))
	}

	got, _ = repo.QueryLessonEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if len(got) != 0 {
		t.Errorf("From filter = %d events, want 0", len(got))
	}
}

func TestLessonStatsAndAccuracy(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appends := []LessonEventData{
		{SessionID: "a", UserID: "sam", LessonID: "1", Action: ActionStart},
		{SessionID: "a", UserID: "sam", LessonID: "1", Action: ActionComplete, Correct: 1, Answered: 1, Duration: 90 * time.Second},
		{SessionID: "b", UserID: "sam", LessonID: "2", Action: ActionStart},
		{SessionID: "b", UserID: "sam", LessonID: "2", Action: ActionAbandon},
		{SessionID: "c", UserID: "kim", LessonID: "1", Action: ActionStart},
	}
	for _, e := range appends {
		if err := repo.AppendLessonEvent(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := repo.LessonStats(ctx, "sam")
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats[0] != (LessonStat{LessonID: "1", Started: 1, Completed: 1, Correct: 1, Answered: 1}) {
		t.Errorf("stats[0] = %+v", stats[0])
	}
	if stats[1].Completed != 0 || stats[1].Started != 1 {
		t.Errorf("stats[1] = %+v", stats[1])
	}

	events, _ := repo.QueryLessonEvents(ctx, QueryOpts{LessonID: "1", UserID: "sam"})
	if len(events) != 2 || events[1].Duration != 90*time.Second {
		t.Errorf("duration round trip: %+v", events)
	}

	for _, ok := range []bool{true, false, true} {
		if err := repo.AppendQuizAnswer(ctx, QuizAnswerEventData{UserID: "sam", LessonID: "1", PageID: "q", OptionID: "a", Correct: ok}); err != nil {
			t.Fatal(err)
		}
	}
	correct, total, err := repo.QuizAccuracy(ctx, "sam")
	if err != nil {
		t.Fatal(err)
	}
	if correct != 2 || total != 3 {
		t.Errorf("QuizAccuracy = %d/%d, want 2/3", correct, total)
	}
}

func TestQueryLLMEventsNewestFirst(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	for _, ok := range []bool{true, false} {
		data := LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "explain", Success: ok, LatencyMs: 12}
		if !ok {
			data.ErrorMessage = "provider unavailable"
		}
		if err := repo.AppendLLMRequest(ctx, data); err != nil {
			t.Fatal(err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Success || events[0].ErrorMessage != "provider unavailable" {
		t.Errorf("newest event = %+v, want the failed request", events[0].LLMRequestEventData)
	}
	if events[1].ErrorMessage != "" || events[1].LatencyMs != 12 {
		t.Errorf("oldest event = %+v", events[1].LLMRequestEventData)
	}
}

func TestDefaultDBPathHonorsEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "x", "finwise.db")
	t.Setenv("FINWISE_DB", want)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("DefaultDBPath() = %q, want %q", got, want)
	}
}
