package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorage_UploadDownload(t *testing.T) {
	baseDir := t.TempDir()
	storage, err := NewLocalStorage(baseDir)
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "events.ccf")
	content := []byte("not a real columnar file, just bytes")
	if err := os.WriteFile(srcPath, content, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	ctx := context.Background()

	objectPath := "narrowed/events.ccf"
	if err := storage.Upload(ctx, srcPath, objectPath); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	exists, err := storage.Exists(ctx, objectPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected object to exist")
	}

	dstPath := filepath.Join(srcDir, "downloaded.ccf")
	if err := storage.Download(ctx, objectPath, dstPath); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	downloaded, err := os.ReadFile(dstPath)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(downloaded) != string(content) {
		t.Errorf("content mismatch: got %q, want %q", downloaded, content)
	}

	if err := storage.Delete(ctx, objectPath); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err = storage.Exists(ctx, objectPath)
	if err != nil {
		t.Fatalf("Exists after delete failed: %v", err)
	}
	if exists {
		t.Error("expected object to not exist after delete")
	}
}

func TestLocalStorage_ConditionalPut(t *testing.T) {
	baseDir := t.TempDir()
	storage, err := NewLocalStorage(baseDir)
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "events.ccf")
	if err := os.WriteFile(srcPath, []byte("conditional put test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	ctx := context.Background()
	objectPath := "conditional/events.ccf"

	// First write goes through Upload so an ETag gets recorded.
	if err := storage.Upload(ctx, srcPath, objectPath); err != nil {
		t.Fatalf("initial upload failed: %v", err)
	}
	etag, ok := storage.GetETag(objectPath)
	if !ok {
		t.Fatal("expected ETag to be recorded after upload")
	}

	if err := storage.ConditionalPut(ctx, srcPath, objectPath, etag); err != nil {
		t.Fatalf("ConditionalPut with correct ETag failed: %v", err)
	}

	err = storage.ConditionalPut(ctx, srcPath, objectPath, "wrong-etag")
	if err != ErrPreconditionFailed {
		t.Errorf("expected ErrPreconditionFailed, got %v", err)
	}
}

func TestLocalStorage_DeleteIdempotent(t *testing.T) {
	baseDir := t.TempDir()
	storage, err := NewLocalStorage(baseDir)
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	if err := storage.Delete(context.Background(), "never/uploaded.ccf"); err != nil {
		t.Errorf("expected deleting a missing object to succeed, got %v", err)
	}
}

func TestLocalStorage_DownloadNotFound(t *testing.T) {
	baseDir := t.TempDir()
	storage, err := NewLocalStorage(baseDir)
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	ctx := context.Background()
	dstPath := filepath.Join(t.TempDir(), "downloaded.ccf")

	err = storage.Download(ctx, "nonexistent/object.ccf", dstPath)
	if err != ErrObjectNotFound {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalStorage_ListObjects(t *testing.T) {
	baseDir := t.TempDir()
	storage, err := NewLocalStorage(baseDir)
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "events.ccf")
	if err := os.WriteFile(srcPath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	ctx := context.Background()
	for _, obj := range []string{"runs/a.ccf", "runs/a.ccf.meta.json", "other/b.ccf"} {
		if err := storage.Upload(ctx, srcPath, obj); err != nil {
			t.Fatalf("Upload %s failed: %v", obj, err)
		}
	}

	objects, err := storage.ListObjects(ctx, "runs")
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}
	if len(objects) != 2 {
		t.Errorf("expected 2 objects under runs/, got %d: %v", len(objects), objects)
	}

	objects, err = storage.ListObjects(ctx, "missing")
	if err != nil {
		t.Fatalf("ListObjects on missing prefix failed: %v", err)
	}
	if len(objects) != 0 {
		t.Errorf("expected no objects under missing prefix, got %v", objects)
	}
}

func TestLocalStorage_Clear(t *testing.T) {
	baseDir := t.TempDir()
	storage, err := NewLocalStorage(baseDir)
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "events.ccf")
	if err := os.WriteFile(srcPath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	ctx := context.Background()

	if err := storage.Upload(ctx, srcPath, "obj1.ccf"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if err := storage.Upload(ctx, srcPath, "obj2.ccf"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if err := storage.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	exists, _ := storage.Exists(ctx, "obj1.ccf")
	if exists {
		t.Error("expected obj1.ccf to not exist after clear")
	}
	exists, _ = storage.Exists(ctx, "obj2.ccf")
	if exists {
		t.Error("expected obj2.ccf to not exist after clear")
	}
}
