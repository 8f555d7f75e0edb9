package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/pkg/vault"
)

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	return &vault.Vault{
		RootPath:    root,
		ResultsPath: filepath.Join(root, "results"),
		ReportsPath: filepath.Join(root, "reports"),
	}
}

func TestFileResultRepository_SaveAndGet(t *testing.T) {
	v := newTestVault(t)
	repo := NewFileResultRepository(v)
	ctx := context.Background()

	stored := domain.StoredResult{
		SessionID:  "s1",
		SourcePath: "/tmp/a.pdf",
		Result:     domain.ExtractionResult{Filename: "a.pdf", Filetype: "pdf", FileID: "f-1", ExtractedText: "hello"},
		UploadedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := repo.Save(ctx, stored); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(v.ManifestPath()); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	// A fresh repository must read what the first one wrote
	reopened := NewFileResultRepository(v)
	got, err := reopened.Get(ctx, "f-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Result.ExtractedText != "hello" || got.SessionID != "s1" {
		t.Errorf("unexpected result: %+v", got)
	}
	if !got.UploadedAt.Equal(stored.UploadedAt) {
		t.Errorf("UploadedAt = %v, want %v", got.UploadedAt, stored.UploadedAt)
	}
}

func TestFileResultRepository_GetMissing(t *testing.T) {
	repo := NewFileResultRepository(newTestVault(t))
	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestFileResultRepository_ListNewestFirst(t *testing.T) {
	repo := NewFileResultRepository(newTestVault(t))
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"old.txt", "new.txt", "mid.txt"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		err := repo.Save(ctx, domain.StoredResult{
			Result:     domain.ExtractionResult{Filename: name},
			UploadedAt: base.Add(offsets[i]),
		})
		if err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"new.txt", "mid.txt", "old.txt"}
	if len(list) != len(want) {
		t.Fatalf("got %d results, want %d", len(list), len(want))
	}
	for i, name := range want {
		if list[i].Result.Filename != name {
			t.Errorf("list[%d] = %s, want %s", i, list[i].Result.Filename, name)
		}
	}
}

func TestFileResultRepository_SaveReplaces(t *testing.T) {
	repo := NewFileResultRepository(newTestVault(t))
	ctx := context.Background()

	for _, text := range []string{"first", "second"} {
		if err := repo.Save(ctx, domain.StoredResult{
			Result: domain.ExtractionResult{Filename: "a.txt", FileID: "same", ExtractedText: text},
		}); err != nil {
			t.Fatal(err)
		}
	}

	list, _ := repo.List(ctx)
	if len(list) != 1 || list[0].Result.ExtractedText != "second" {
		t.Errorf("expected one replaced entry, got %+v", list)
	}
}

func TestFileResultRepository_SaveWithoutFileID(t *testing.T) {
	repo := NewFileResultRepository(newTestVault(t))
	ctx := context.Background()

	results := []domain.StoredResult{
		{SessionID: "s1", SourcePath: "/x/a.pdf"},
		{SessionID: "s1", SourcePath: "/y/a.pdf"},
		{SessionID: "s1", SourcePath: "/x/a.pdf", Result: domain.ExtractionResult{Filename: "a.pdf"}},
		{SessionID: "s1", SourcePath: "/y/a.pdf", Result: domain.ExtractionResult{Filename: "a.pdf"}},
	}
	for _, r := range results {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	list, _ := repo.List(ctx)
	if len(list) != len(results) {
		t.Fatalf("expected %d entries, got %d", len(results), len(list))
	}
	if _, err := repo.Get(ctx, results[1].Key()); err != nil {
		t.Errorf("Get(%q) failed: %v", results[1].Key(), err)
	}
}

func TestFileResultRepository_CorruptManifest(t *testing.T) {
	v := newTestVault(t)
	if err := os.MkdirAll(v.ResultsPath, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(v.ManifestPath(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	repo := NewFileResultRepository(v)
	if _, err := repo.List(context.Background()); err == nil {
		t.Error("expected parse error")
	}
}
