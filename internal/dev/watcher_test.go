package dev

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcherDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 1)

	w := NewWatcher(WatcherConfig{
		Paths:    []string{dir},
		Debounce: 20 * time.Millisecond,
	}, zerolog.Nop())
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	target := filepath.Join(dir, "page.go")
	if err := os.WriteFile(target, []byte("package pages\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case path := <-changed:
		if path != target {
			t.Errorf("changed path = %q, want %q", path, target)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change callback within 3s")
	}
}

func TestWatcherIgnoresPatterns(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 4)

	w := NewWatcher(WatcherConfig{
		Paths:    []string{dir},
		Ignore:   []string{"*.tmp"},
		Debounce: 20 * time.Millisecond,
	}, zerolog.Nop())
	w.OnChange(func(path string) { changed <- path })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "scratch.tmp"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case path := <-changed:
		t.Errorf("ignored file triggered callback: %q", path)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	w := NewWatcher(WatcherConfig{Paths: []string{t.TempDir()}}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
