package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	job, err := store.Create(ctx, KindOverlay, "/renders/final.mp4")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Status != StatusQueued || job.ID == "" {
		t.Fatalf("unexpected new job: %+v", job)
	}

	if err := store.MarkRunning(ctx, job.ID); err != nil {
		t.Fatalf("MarkRunning: %v", err)
	}
	got, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusRunning || got.CompletedAt != nil {
		t.Errorf("running job = %+v", got)
	}

	if err := store.MarkSucceeded(ctx, job.ID); err != nil {
		t.Fatalf("MarkSucceeded: %v", err)
	}
	got, err = store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusSuccess || got.CompletedAt == nil {
		t.Errorf("finished job = %+v", got)
	}
	if got.Kind != KindOverlay || got.Output != "/renders/final.mp4" {
		t.Errorf("fields not persisted: %+v", got)
	}
}

func TestMarkFailedStoresMessage(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	job, err := store.Create(ctx, KindMerge, "out.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.MarkFailed(ctx, job.ID, errors.New("exit status 1")); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	got, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusFailed || got.Error != "exit status 1" {
		t.Errorf("failed job = %+v", got)
	}
	if !got.Status.Done() {
		t.Error("failed status should be done")
	}
}

func TestUnknownJob(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if err := store.MarkRunning(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkRunning: expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		store.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		job, err := store.Create(ctx, KindConcat, "")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, job.ID)
	}

	jobs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != ids[2] || jobs[2].ID != ids[0] {
		t.Errorf("unexpected order: %s %s %s", jobs[0].ID, jobs[1].ID, jobs[2].ID)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 jobs with limit, got %d", len(limited))
	}
}

func TestPruneKeepsActiveAndRecentJobs(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return old }
	oldDone, _ := store.Create(ctx, KindBurn, "")
	_ = store.MarkSucceeded(ctx, oldDone.ID)
	oldRunning, _ := store.Create(ctx, KindBurn, "")
	_ = store.MarkRunning(ctx, oldRunning.ID)

	recentTime := old.Add(48 * time.Hour)
	store.now = func() time.Time { return recentTime }
	recent, _ := store.Create(ctx, KindBurn, "")
	_ = store.MarkFailed(ctx, recent.ID, errors.New("boom"))

	removed, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := store.Get(ctx, oldDone.ID); !errors.Is(err, ErrNotFound) {
		t.Error("expected old finished job to be pruned")
	}
	for _, id := range []string{oldRunning.ID, recent.ID} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Errorf("job %s should be kept: %v", id, err)
		}
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	job, err := first.Create(ctx, KindScenes, "x.mp4")
	if err != nil {
		t.Fatal(err)
	}
	_ = first.Close()

	second, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if _, err := second.Get(ctx, job.ID); err != nil {
		t.Errorf("job lost after reopen: %v", err)
	}
}

func TestKindLabel(t *testing.T) {
	tests := map[Kind]string{
		KindBurn:   "Burn Captions",
		KindMusic:  "Background Music",
		KindConcat: "Concat",
	}
	for kind, want := range tests {
		if got := kind.Label(); got != want {
			t.Errorf("%s.Label() = %q, want %q", kind, got, want)
		}
	}
}

func TestElapsed(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	job := &Job{CreatedAt: start, CompletedAt: &end}
	if got := job.Elapsed(start.Add(time.Hour)); got != 90*time.Second {
		t.Errorf("Elapsed = %v", got)
	}
	job.CompletedAt = nil
	if got := job.Elapsed(start.Add(time.Minute)); got != time.Minute {
		t.Errorf("Elapsed running = %v", got)
	}
}
