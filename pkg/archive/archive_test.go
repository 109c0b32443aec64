package archive

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "transcripts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestSaveAndList(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	if _, err := a.Save(ctx, "nexus", KindListing, "first listing"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := a.Save(ctx, "nexus", KindHistory, "a history"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := a.Save(ctx, "other", KindListing, "unrelated"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := a.List(ctx, "nexus", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Game != "nexus" {
			t.Errorf("entry for wrong game: %+v", e)
		}
	}
}

func TestLatest(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	if e, err := a.Latest(ctx, "nexus", KindListing); err != nil || e != nil {
		t.Fatalf("Latest on empty archive = (%v, %v)", e, err)
	}

	a.Save(ctx, "nexus", KindListing, "old")
	a.Save(ctx, "nexus", KindListing, "new")

	e, err := a.Latest(ctx, "nexus", KindListing)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if e == nil || e.Body != "new" {
		t.Errorf("latest = %+v, want the newest body", e)
	}
}

func TestTrim(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := a.Save(ctx, "nexus", KindListing, "body"); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if err := a.Trim(ctx, "nexus", 2); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	entries, err := a.List(ctx, "nexus", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries after trim = %d, want 2", len(entries))
	}
}
