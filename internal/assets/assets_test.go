package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"
)

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "lighting"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lighting", "point.frag"), []byte("disk"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	defer m.Close()
	m.AddFS("embedded", fstest.MapFS{
		"lighting/point.frag": {Data: []byte("embedded")},
		"basic/unlit.frag":    {Data: []byte("embedded only")},
	})
	if err := m.AddDir(dir); err != nil {
		t.Fatalf("AddDir() error = %v", err)
	}

	// Directory added last wins
	data, err := m.Load("lighting/point.frag")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != "disk" {
		t.Errorf("Load() = %q, want %q", data, "disk")
	}

	// Falls back to the embedded source
	data, err = m.Load("basic/unlit.frag")
	if err != nil || string(data) != "embedded only" {
		t.Errorf("Load() = %q, %v; want embedded fallback", data, err)
	}
}

func TestLoadNotFound(t *testing.T) {
	m := NewManager()
	m.AddFS("empty", fstest.MapFS{})

	_, err := m.Load("textures/pluto.jpg")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
	if m.Exists("textures/pluto.jpg") {
		t.Error("Exists() = true for missing file")
	}
}

func TestLoadCachesAndInvalidates(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	os.WriteFile(file, []byte("one"), 0644)

	m := NewManager()
	m.AddDir(dir)

	m.Load("a.txt")
	os.WriteFile(file, []byte("two"), 0644)

	data, _ := m.Load("a.txt")
	if string(data) != "one" {
		t.Errorf("cached Load() = %q, want %q", data, "one")
	}
	if hits, _ := m.CacheStats(); hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}

	m.Invalidate("./a.txt")
	data, _ = m.Load("a.txt")
	if string(data) != "two" {
		t.Errorf("Load() after Invalidate = %q, want %q", data, "two")
	}
}

func TestAddDirMissing(t *testing.T) {
	m := NewManager()
	if err := m.AddDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestClean(t *testing.T) {
	tests := map[string]string{
		"lighting/point.frag":   "lighting/point.frag",
		"/lighting//point.frag": "lighting/point.frag",
		`lighting\point.frag`:   "lighting/point.frag",
		"./a/../b.txt":          "b.txt",
	}
	for in, want := range tests {
		if got := clean(in); got != want {
			t.Errorf("clean(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWatchReportsChanges(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "basic")
	os.MkdirAll(sub, 0755)
	file := filepath.Join(sub, "unlit.frag")
	os.WriteFile(file, []byte("v1"), 0644)

	m := NewManager()
	defer m.Close()
	m.AddDir(dir)
	m.Load("basic/unlit.frag")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Watch(ctx); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	os.WriteFile(file, []byte("v2"), 0644)

	// A write may be reported in several events; wait until the new content is served.
	seen := false
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, name := range m.Changes() {
			if name == "basic/unlit.frag" {
				seen = true
			}
		}
		if seen {
			if data, _ := m.Load("basic/unlit.frag"); string(data) == "v2" {
				return
			}
			m.Invalidate("basic/unlit.frag")
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("change to basic/unlit.frag not picked up (seen=%v)", seen)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(10)
	c.Set("a", []byte("aaaa"))
	c.Set("b", []byte("bbbb"))
	c.Get("a") // b becomes the oldest
	c.Set("c", []byte("cccc"))

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("entry %s evicted", k)
		}
	}
	if files, size := c.Len(); files != 2 || size != 8 {
		t.Errorf("Len() = %d, %d, want 2, 8", files, size)
	}

	c.Set("a", []byte("a"))
	if _, size := c.Len(); size != 5 {
		t.Errorf("replacing an entry left size %d, want 5", size)
	}

	c.Set("huge", make([]byte, 11))
	if _, ok := c.Get("huge"); ok {
		t.Error("entry larger than the cache was stored")
	}

	c.Clear()
	if files, size := c.Len(); files != 0 || size != 0 {
		t.Errorf("Clear() left %d files, %d bytes", files, size)
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("Clear() kept stats %d/%d", hits, misses)
	}
}
