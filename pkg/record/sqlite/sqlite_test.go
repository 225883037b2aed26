package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tableflip.dev/dosebook/pkg/errs"
)

func openTest(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "dosebook.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestStoresAreIsolated(t *testing.T) {
	b := openTest(t)
	ctx := context.Background()

	a := b.Open("a")
	c := b.Open("c")
	if err := a.Append(ctx, "first"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := a.Append(ctx, " second "); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := a.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("unexpected lines %v", got)
	}

	ok, err := c.Exists(ctx)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("store c should not exist")
	}
	empty, err := c.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read c: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty store, got %v", empty)
	}
}

func TestRewriteRemovesFirstMatchOnly(t *testing.T) {
	b := openTest(t)
	ctx := context.Background()
	l := b.Open("log")
	for _, line := range []string{"x", "dup", "dup", "y"} {
		if err := l.Append(ctx, line); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	removed := false
	n, err := l.Rewrite(ctx, func(line string) bool {
		if !removed && line == "dup" {
			removed = true
			return false
		}
		return true
	})
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	got, _ := l.ReadAll(ctx)
	want := []string{"x", "dup", "y"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRewriteMissingStore(t *testing.T) {
	b := openTest(t)
	_, err := b.Open("nope").Rewrite(context.Background(), func(string) bool { return true })
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
