package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yaklabco/gorazor/pkg/fsutil"
)

func writeTemplate(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Index.cshtml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads file content and stamp", func(t *testing.T) {
		t.Parallel()

		content := "<p>@Model.Name</p>"
		path := writeTemplate(t, content)

		got, stamp, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}

		if string(got) != content {
			t.Errorf("content = %q, want %q", got, content)
		}
		if stamp.Path != path {
			t.Errorf("Path = %q, want %q", stamp.Path, path)
		}
		if stamp.Size != int64(len(content)) {
			t.Errorf("Size = %d, want %d", stamp.Size, len(content))
		}

		var zeroHash [32]byte
		if stamp.Hash == zeroHash {
			t.Error("Hash should not be zero")
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.cshtml"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("returns error for directory", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.StampFile(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Errorf("expected ErrIsDirectory, got %v", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, _, err := fsutil.ReadFile(ctx, "any"); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}

func TestStamp_Changed(t *testing.T) {
	t.Parallel()

	t.Run("unchanged file", func(t *testing.T) {
		t.Parallel()

		path := writeTemplate(t, "<p>hi</p>")
		stamp, err := fsutil.StampFile(context.Background(), path)
		if err != nil {
			t.Fatalf("StampFile() error = %v", err)
		}

		changed, err := stamp.Changed(context.Background())
		if err != nil {
			t.Fatalf("Changed() error = %v", err)
		}
		if changed {
			t.Error("expected unchanged")
		}
	})

	t.Run("touched but not edited", func(t *testing.T) {
		t.Parallel()

		path := writeTemplate(t, "<p>hi</p>")
		stamp, err := fsutil.StampFile(context.Background(), path)
		if err != nil {
			t.Fatalf("StampFile() error = %v", err)
		}

		later := stamp.ModTime.Add(time.Hour)
		if err := os.Chtimes(path, later, later); err != nil {
			t.Fatalf("chtimes: %v", err)
		}

		changed, err := stamp.Changed(context.Background())
		if err != nil {
			t.Fatalf("Changed() error = %v", err)
		}
		if changed {
			t.Error("a touch without an edit should not be a change")
		}
	})

	t.Run("same size edit", func(t *testing.T) {
		t.Parallel()

		path := writeTemplate(t, "<p>hi</p>")
		stamp, err := fsutil.StampFile(context.Background(), path)
		if err != nil {
			t.Fatalf("StampFile() error = %v", err)
		}

		if err := os.WriteFile(path, []byte("<b>hi</b>"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		later := stamp.ModTime.Add(time.Second)
		if err := os.Chtimes(path, later, later); err != nil {
			t.Fatalf("chtimes: %v", err)
		}

		changed, err := stamp.Changed(context.Background())
		if err != nil {
			t.Fatalf("Changed() error = %v", err)
		}
		if !changed {
			t.Error("expected changed")
		}
	})

	t.Run("size change", func(t *testing.T) {
		t.Parallel()

		path := writeTemplate(t, "<p>hi</p>")
		stamp, err := fsutil.StampFile(context.Background(), path)
		if err != nil {
			t.Fatalf("StampFile() error = %v", err)
		}

		if err := os.WriteFile(path, []byte("<p>hello</p>"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		changed, err := stamp.Changed(context.Background())
		if err != nil {
			t.Fatalf("Changed() error = %v", err)
		}
		if !changed {
			t.Error("expected changed")
		}
	})

	t.Run("deleted file", func(t *testing.T) {
		t.Parallel()

		path := writeTemplate(t, "<p>hi</p>")
		stamp, err := fsutil.StampFile(context.Background(), path)
		if err != nil {
			t.Fatalf("StampFile() error = %v", err)
		}
		if err := os.Remove(path); err != nil {
			t.Fatalf("remove: %v", err)
		}

		changed, err := stamp.Changed(context.Background())
		if err != nil {
			t.Fatalf("Changed() error = %v", err)
		}
		if !changed {
			t.Error("a deleted file has changed")
		}
	})

	t.Run("nil stamp", func(t *testing.T) {
		t.Parallel()

		var stamp *fsutil.Stamp
		if _, err := stamp.Changed(context.Background()); !errors.Is(err, fsutil.ErrNilStamp) {
			t.Errorf("expected ErrNilStamp, got %v", err)
		}
	})
}
