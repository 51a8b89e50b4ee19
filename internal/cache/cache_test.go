package cache

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("tavily", "basic", "Eiffel Tower height")
	b := Key("tavily", "basic", "  eiffel   tower HEIGHT ")
	if a != b {
		t.Errorf("Expected normalized queries to share a key: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "hallucheck:v1:") {
		t.Errorf("Expected versioned prefix, got %s", a)
	}
	if a == Key("tavily", "advanced", "Eiffel Tower height") {
		t.Error("Expected depth to change the key")
	}
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Expected part boundaries to change the key")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	value := []byte("result")
	if err := c.Set("k", value, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value[0] = 'X'

	got, ok := c.Get("k")
	if !ok || string(got) != "result" {
		t.Errorf("Expected stored copy 'result', got %q (found=%v)", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("tavily", "basic", "query")

	if _, ok := c.Get(key); ok {
		t.Fatal("Expected miss on empty cache")
	}
	if err := c.Set(key, []byte(`{"answer":"yes"}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(key)
	if !ok || string(got) != `{"answer":"yes"}` {
		t.Errorf("Unexpected value %q (found=%v)", got, ok)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected a single cache file without temp leftovers, got %d", len(entries))
	}

	if err := c.Delete(key); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("Expected deleting a missing key to succeed, got %v", err)
	}
}

func TestDiskCache_ExpiredAndCorrupt(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	_ = c.Set("old", []byte("v"), -time.Second)
	if _, ok := c.Get("old"); ok {
		t.Error("Expected expired entry to miss")
	}

	if err := os.WriteFile(c.path("bad"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("Expected corrupt entry to miss")
	}
	if _, err := os.Stat(c.path("bad")); !os.IsNotExist(err) {
		t.Error("Expected corrupt entry to be removed")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	memory := NewMemoryCache(time.Minute, time.Minute)
	disk := NewDiskCache(t.TempDir(), time.Hour)
	c := NewLayered(memory, disk)

	_ = disk.Set("k", []byte("from-disk"), 0)
	if _, ok := memory.Get("k"); ok {
		t.Fatal("Expected memory layer to start empty")
	}

	got, ok := c.Get("k")
	if !ok || string(got) != "from-disk" {
		t.Fatalf("Expected disk hit, got %q (found=%v)", got, ok)
	}
	if _, ok := memory.Get("k"); !ok {
		t.Error("Expected disk hit promoted to memory")
	}

	_ = c.Clear()
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after clear")
	}
}

func TestLayeredCache_MemoryOnly(t *testing.T) {
	c := NewLayered(NewMemoryCache(time.Minute, time.Minute), nil)
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := c.Get("k"); !ok {
		t.Error("Expected memory hit")
	}
	if err := c.Delete("k"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
}
