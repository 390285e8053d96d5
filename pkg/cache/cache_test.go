package cache

import (
	"context"
	"testing"
	"time"

	"github.com/voltlab/sldraw/pkg/layout"
	"github.com/voltlab/sldraw/pkg/sld"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get data = %q, want value", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should miss")
	}
}

func TestScopedCachePrefixesKeys(t *testing.T) {
	ctx := context.Background()
	backing, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer backing.Close()

	a := NewScoped(backing, "site-a:")
	b := NewScoped(backing, "site-b:")

	if err := a.Set(ctx, "key", []byte("from-a"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := b.Get(ctx, "key"); hit {
		t.Error("scoped caches should not see each other's keys")
	}
	if data, hit, _ := a.Get(ctx, "key"); !hit || string(data) != "from-a" {
		t.Errorf("Get through same scope = %q, %v", data, hit)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDocumentKey(t *testing.T) {
	doc := &sld.Document{Components: []sld.Component{{ID: "pv", Type: sld.TypePVArray}}}
	same := &sld.Document{Components: []sld.Component{{ID: "pv", Type: sld.TypePVArray}}}
	other := &sld.Document{Components: []sld.Component{{ID: "pv2", Type: sld.TypePVArray}}}

	if DocumentKey(doc) != DocumentKey(same) {
		t.Error("identical documents should share a key")
	}
	if DocumentKey(doc) == DocumentKey(other) {
		t.Error("different documents should not share a key")
	}
}

func TestLayoutKeyDependsOnGeometry(t *testing.T) {
	docKey := "doc:abc"
	base := layout.DefaultOptions()
	wide := layout.DefaultOptions()
	wide.LevelWidth = 500

	if LayoutKey(docKey, base) == LayoutKey(docKey, wide) {
		t.Error("different geometry should produce different layout keys")
	}
	if LayoutKey(docKey, base) != LayoutKey(docKey, layout.DefaultOptions()) {
		t.Error("same geometry should produce the same layout key")
	}
}

func TestArtifactKeyDependsOnFormat(t *testing.T) {
	if ArtifactKey("layout:abc", "svg") == ArtifactKey("layout:abc", "png") {
		t.Error("different formats should produce different artifact keys")
	}
}
