package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), ".galton"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := Run{
		SlotCount:  5,
		BeanCount:  100,
		Mode:       "luck",
		Seed:       42,
		SlotCounts: []int{6, 25, 38, 24, 7},
		Average:    2.01,
	}

	id, err := s.SaveRun(ctx, in)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero run id")
	}

	got, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got == nil {
		t.Fatal("run not found")
	}
	if got.SlotCount != in.SlotCount || got.BeanCount != in.BeanCount ||
		got.Mode != in.Mode || got.Seed != in.Seed || got.Average != in.Average {
		t.Errorf("got %+v, want %+v", got, in)
	}
	if len(got.SlotCounts) != 5 || got.SlotCounts[2] != 38 {
		t.Errorf("slot counts = %v, want %v", got.SlotCounts, in.SlotCounts)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestGetRunMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetRun(context.Background(), 12345)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing run, got %+v", got)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.SaveRun(ctx, Run{
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			SlotCount:  3,
			BeanCount:  i,
			Mode:       "skill",
			SlotCounts: []int{i, 0, 0},
		})
		if err != nil {
			t.Fatalf("SaveRun %d: %v", i, err)
		}
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].BeanCount != 2 || runs[2].BeanCount != 0 {
		t.Errorf("runs not newest-first: %v, %v, %v", runs[0].BeanCount, runs[1].BeanCount, runs[2].BeanCount)
	}

	limited, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d runs with limit 2, want 2", len(limited))
	}
}

func TestListRunsEmpty(t *testing.T) {
	s := newTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs, want 0", len(runs))
	}
}

func TestStoreReopens(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".galton")
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()
	if _, err := s.SaveRun(ctx, Run{SlotCount: 2, Mode: "luck", SlotCounts: []int{1, 1}}); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := NewStore(dir)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer s2.Close()

	runs, err := s2.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}
