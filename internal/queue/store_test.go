package queue_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scribe/internal/queue"
)

func openStore(t *testing.T) *queue.Store {
	t.Helper()
	store, err := queue.OpenPath(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewVideoAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	item, err := store.NewVideo(ctx, "abc123", "https://youtu.be/abc123", "First video")
	if err != nil {
		t.Fatalf("NewVideo: %v", err)
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("status = %s, want pending", item.Status)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}

	fetched, err := store.GetByVideoID(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetByVideoID: %v", err)
	}
	if fetched == nil || fetched.ID != item.ID || fetched.Title != "First video" {
		t.Fatalf("unexpected item: %+v", fetched)
	}
}

func TestDuplicateVideoIDRejected(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.NewVideo(ctx, "dup", "https://youtu.be/dup", ""); err != nil {
		t.Fatalf("NewVideo: %v", err)
	}
	if _, err := store.NewVideo(ctx, "dup", "https://youtu.be/dup", ""); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	item, err := store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", "")
	if err != nil {
		t.Fatal(err)
	}

	item.Status = queue.StatusFetched
	item.AudioFile = "/tmp/audio/vid1.m4a"
	item.Provider = "assemblyai"
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != queue.StatusFetched || got.AudioFile != "/tmp/audio/vid1.m4a" || got.Provider != "assemblyai" {
		t.Fatalf("unexpected item after update: %+v", got)
	}
}

func TestCompletedAtPersists(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	item, err := store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", "")
	if err != nil {
		t.Fatal(err)
	}
	item.SetCompleted(time.Now())
	if err := store.Update(ctx, item); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CompletedAt == nil {
		t.Fatal("completed_at not persisted")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	a, _ := store.NewVideo(ctx, "a", "https://youtu.be/a", "")
	b, _ := store.NewVideo(ctx, "b", "https://youtu.be/b", "")
	if _, err := store.NewVideo(ctx, "c", "https://youtu.be/c", ""); err != nil {
		t.Fatal(err)
	}

	a.SetFailed("boom")
	if err := store.Update(ctx, a); err != nil {
		t.Fatal(err)
	}
	b.SetCompleted(time.Now())
	if err := store.Update(ctx, b); err != nil {
		t.Fatal(err)
	}

	failed, err := store.List(ctx, queue.StatusFailed)
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 || failed[0].VideoID != "a" {
		t.Fatalf("failed list = %+v", failed)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d items", len(all))
	}
}

func TestResetStuckProcessing(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	fetching, _ := store.NewVideo(ctx, "f", "https://youtu.be/f", "")
	fetching.Status = queue.StatusFetching
	if err := store.Update(ctx, fetching); err != nil {
		t.Fatal(err)
	}

	transcribing, _ := store.NewVideo(ctx, "t", "https://youtu.be/t", "")
	transcribing.Status = queue.StatusTranscribing
	if err := store.Update(ctx, transcribing); err != nil {
		t.Fatal(err)
	}

	exporting, _ := store.NewVideo(ctx, "e", "https://youtu.be/e", "")
	exporting.Status = queue.StatusExporting
	if err := store.Update(ctx, exporting); err != nil {
		t.Fatal(err)
	}

	affected, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing: %v", err)
	}
	if affected != 3 {
		t.Fatalf("affected = %d, want 3", affected)
	}

	wantStatus := map[string]queue.Status{
		"f": queue.StatusPending,
		"t": queue.StatusFetched,
		"e": queue.StatusTranscribed,
	}
	for videoID, want := range wantStatus {
		item, err := store.GetByVideoID(ctx, videoID)
		if err != nil {
			t.Fatal(err)
		}
		if item.Status != want {
			t.Errorf("%s status = %s, want %s", videoID, item.Status, want)
		}
	}
}

func TestRetryFailed(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	a, _ := store.NewVideo(ctx, "a", "https://youtu.be/a", "")
	a.SetFailed("network down")
	if err := store.Update(ctx, a); err != nil {
		t.Fatal(err)
	}
	b, _ := store.NewVideo(ctx, "b", "https://youtu.be/b", "")
	b.SetFailed("quota")
	if err := store.Update(ctx, b); err != nil {
		t.Fatal(err)
	}

	affected, err := store.RetryFailed(ctx, a.ID)
	if err != nil {
		t.Fatalf("RetryFailed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}

	got, _ := store.GetByID(ctx, a.ID)
	if got.Status != queue.StatusPending || got.ErrorMessage != "" {
		t.Fatalf("item not reset: %+v", got)
	}

	affected, err = store.RetryFailed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if affected != 1 {
		t.Fatalf("retry-all affected = %d, want 1", affected)
	}
}

func TestStatsAndHealth(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.NewVideo(ctx, "p", "https://youtu.be/p", ""); err != nil {
		t.Fatal(err)
	}
	done, _ := store.NewVideo(ctx, "d", "https://youtu.be/d", "")
	done.SetCompleted(time.Now())
	if err := store.Update(ctx, done); err != nil {
		t.Fatal(err)
	}
	bad, _ := store.NewVideo(ctx, "x", "https://youtu.be/x", "")
	bad.SetFailed("error")
	if err := store.Update(ctx, bad); err != nil {
		t.Fatal(err)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if health.Total != 3 || health.Pending != 1 || health.Completed != 1 || health.Failed != 1 {
		t.Fatalf("health = %+v", health)
	}
}

func TestClearVariants(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	done, _ := store.NewVideo(ctx, "done", "https://youtu.be/done", "")
	done.SetCompleted(time.Now())
	if err := store.Update(ctx, done); err != nil {
		t.Fatal(err)
	}
	bad, _ := store.NewVideo(ctx, "bad", "https://youtu.be/bad", "")
	bad.SetFailed("error")
	if err := store.Update(ctx, bad); err != nil {
		t.Fatal(err)
	}
	if _, err := store.NewVideo(ctx, "keep", "https://youtu.be/keep", ""); err != nil {
		t.Fatal(err)
	}

	if n, err := store.ClearCompleted(ctx); err != nil || n != 1 {
		t.Fatalf("ClearCompleted = %d, %v", n, err)
	}
	if n, err := store.ClearFailed(ctx); err != nil || n != 1 {
		t.Fatalf("ClearFailed = %d, %v", n, err)
	}
	if n, err := store.Clear(ctx); err != nil || n != 1 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
}

func TestExportJSON(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	item, _ := store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", "Exported")
	item.Status = queue.StatusCompleted
	item.TranscriptFile = "/library/transcripts/vid1.json"
	now := time.Now()
	item.CompletedAt = &now
	if err := store.Update(ctx, item); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "index.json")
	if err := store.ExportJSON(ctx, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var snapshot queue.IndexSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if len(snapshot.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(snapshot.Items))
	}
	entry := snapshot.Items[0]
	if entry.VideoID != "vid1" || entry.Status != "completed" || entry.TranscriptFile == "" || entry.CompletedAt == "" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestSchemaMismatchDetected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	store, err := queue.OpenPath(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	// Reopening an initialized database succeeds.
	store, err = queue.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = store.Close()
}

func TestParseStatus(t *testing.T) {
	if status, ok := queue.ParseStatus(" Pending "); !ok || status != queue.StatusPending {
		t.Fatalf("ParseStatus = %s, %v", status, ok)
	}
	if _, ok := queue.ParseStatus("bogus"); ok {
		t.Fatal("unknown status should not parse")
	}
}
