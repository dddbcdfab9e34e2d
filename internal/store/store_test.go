package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(rdb, zap.NewNop().Sugar()), mr
}

func TestStoreAppendsSessionRecords(t *testing.T) {
	t.Parallel()

	st, mr := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	first := SessionRecord{StartTime: start, EndTime: start.Add(25 * time.Minute), DurationMinutes: 25, Completed: true}
	second := SessionRecord{StartTime: start.Add(time.Hour), EndTime: start.Add(time.Hour + 10*time.Minute), DurationMinutes: 10, Completed: false}

	if err := st.AddSession(ctx, "alice", first); err != nil {
		t.Fatalf("add session failed: %v", err)
	}
	if err := st.AddSession(ctx, "alice", second); err != nil {
		t.Fatalf("add session failed: %v", err)
	}

	items, err := mr.List("focusguard:sessions:alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("stored %d records, want 2", len(items))
	}

	var got SessionRecord
	if err := json.Unmarshal([]byte(items[0]), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !got.Completed || got.DurationMinutes != 25 {
		t.Fatalf("unexpected first record: %+v", got)
	}

	if err := json.Unmarshal([]byte(items[1]), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Completed || got.DurationMinutes != 10 {
		t.Fatalf("unexpected second record: %+v", got)
	}
}

func TestStoreAppendsQuizRecords(t *testing.T) {
	t.Parallel()

	st, mr := newTestStore(t)
	ctx := context.Background()

	rec := QuizRecord{Topic: "go basics", Score: 7, Total: 10, Date: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	if err := st.AddQuiz(ctx, "alice", rec); err != nil {
		t.Fatalf("add quiz failed: %v", err)
	}

	items, err := mr.List("focusguard:quizzes:alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("stored %d records, want 1", len(items))
	}

	var got QuizRecord
	if err := json.Unmarshal([]byte(items[0]), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Topic != "go basics" || got.Score != 7 || got.Total != 10 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestStoreKeysAreScopedByUser(t *testing.T) {
	t.Parallel()

	st, mr := newTestStore(t)
	ctx := context.Background()

	rec := SessionRecord{DurationMinutes: 5, Completed: true}
	if err := st.AddSession(ctx, "alice", rec); err != nil {
		t.Fatalf("add session failed: %v", err)
	}
	if err := st.AddSession(ctx, "bob", rec); err != nil {
		t.Fatalf("add session failed: %v", err)
	}

	alice, err := mr.List("focusguard:sessions:alice")
	if err != nil || len(alice) != 1 {
		t.Fatalf("alice records = %d (err %v), want 1", len(alice), err)
	}
	bob, err := mr.List("focusguard:sessions:bob")
	if err != nil || len(bob) != 1 {
		t.Fatalf("bob records = %d (err %v), want 1", len(bob), err)
	}
}

func TestStoreWriteFailureReturnsError(t *testing.T) {
	t.Parallel()

	st, mr := newTestStore(t)
	mr.Close()

	err := st.AddSession(context.Background(), "alice", SessionRecord{})
	if err == nil {
		t.Fatalf("expected error after redis went away")
	}
}
