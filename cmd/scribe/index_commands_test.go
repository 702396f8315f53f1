package main

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"testing"

	"scribe/internal/queue"
)

func TestIndexListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"index", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("index list: %v", err)
	}
	requireContains(t, out, "Index is empty")
}

func TestIndexListShowsItems(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	if _, err := env.store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", "First Video"); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"index", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("index list: %v", err)
	}
	requireContains(t, out, "vid1")
	requireContains(t, out, "First Video")
	requireContains(t, out, "pending")
}

func TestIndexListJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	if _, err := env.store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", ""); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"index", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("index list --json: %v", err)
	}

	var views []indexItemView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(views) != 1 || views[0].VideoID != "vid1" {
		t.Fatalf("views = %+v", views)
	}
}

func TestIndexRetryResetsFailed(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	item, err := env.store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", "")
	if err != nil {
		t.Fatal(err)
	}
	item.SetFailed("download failed")
	if err := env.store.Update(ctx, item); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"index", "retry"}, env.configPath)
	if err != nil {
		t.Fatalf("index retry: %v", err)
	}
	requireContains(t, out, "Reset 1 failed item(s)")

	refreshed, err := env.store.GetByVideoID(ctx, "vid1")
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.Status != queue.StatusPending {
		t.Fatalf("status = %s", refreshed.Status)
	}
}

func TestIndexStatusSummarizes(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	if _, err := env.store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", ""); err != nil {
		t.Fatal(err)
	}
	completed, err := env.store.NewVideo(ctx, "vid2", "https://youtu.be/vid2", "")
	if err != nil {
		t.Fatal(err)
	}
	completed.SetCompleted(completed.CreatedAt)
	if err := env.store.Update(ctx, completed); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"index", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("index status: %v", err)
	}
	requireContains(t, out, "pending")
	requireContains(t, out, "completed")
	requireContains(t, out, "2 total")
}

func TestIndexRemoveDeletesItem(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	item, err := env.store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", "")
	if err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"index", "remove", strconv.FormatInt(item.ID, 10)}, env.configPath)
	if err != nil {
		t.Fatalf("index remove: %v", err)
	}
	requireContains(t, out, "Removed item")

	gone, err := env.store.GetByVideoID(ctx, "vid1")
	if err != nil {
		t.Fatal(err)
	}
	if gone != nil {
		t.Fatalf("item still present: %+v", gone)
	}
}

func TestIndexClearRequiresForce(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	if _, err := env.store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", ""); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, []string{"index", "clear"}, env.configPath); err == nil {
		t.Fatal("expected error without --force")
	}

	out, _, err := runCLI(t, []string{"index", "clear", "--force"}, env.configPath)
	if err != nil {
		t.Fatalf("index clear --force: %v", err)
	}
	requireContains(t, out, "Cleared 1 item(s)")
}

func TestIndexExportWritesSnapshot(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	if _, err := env.store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", ""); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"index", "export"}, env.configPath)
	if err != nil {
		t.Fatalf("index export: %v", err)
	}
	requireContains(t, out, "Wrote index snapshot")

	if _, err := os.Stat(env.cfg.IndexJSONPath()); err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
}
