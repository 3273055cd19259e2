package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/timeruler/internal/config"
	"github.com/matzehuels/timeruler/pkg/cache"
)

func TestClearFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	n, where, err := clearCache(ctx, config.CacheConfig{Type: config.CacheFile, Dir: dir})
	if err != nil {
		t.Fatalf("clearCache() error: %v", err)
	}
	if n != 3 {
		t.Errorf("cleared %d entries, want 3", n)
	}
	if !strings.Contains(where, dir) {
		t.Errorf("where = %q, want directory", where)
	}
	if _, ok, _ := fc.Get(ctx, "a"); ok {
		t.Error("entry survived clear")
	}
}

func TestClearFileCacheMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	n, _, err := clearCache(context.Background(), config.CacheConfig{Type: config.CacheFile, Dir: dir})
	if err != nil {
		t.Fatalf("clearCache() error: %v", err)
	}
	if n != 0 {
		t.Errorf("cleared %d entries, want 0", n)
	}
}

func TestClearRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.Set("timeruler:a", "1")
	mr.Set("timeruler:b", "2")
	mr.Set("other:c", "3")

	cfg := config.CacheConfig{Type: config.CacheRedis, RedisAddr: mr.Addr(), RedisPrefix: "timeruler:"}
	n, _, err := clearCache(context.Background(), cfg)
	if err != nil {
		t.Fatalf("clearCache() error: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d keys, want 2", n)
	}
	if !mr.Exists("other:c") {
		t.Error("key outside the prefix was removed")
	}
}

func TestClearCacheDisabled(t *testing.T) {
	n, _, err := clearCache(context.Background(), config.CacheConfig{Type: config.CacheNone})
	if err != nil || n != 0 {
		t.Errorf("clearCache(none) = %d, %v", n, err)
	}
}

func TestPrintCachePath(t *testing.T) {
	var buf bytes.Buffer
	if err := printCachePath(&buf, config.CacheConfig{Type: config.CacheFile, Dir: "/tmp/tr"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "/tmp/tr" {
		t.Errorf("path = %q", got)
	}

	buf.Reset()
	cfg := config.CacheConfig{Type: config.CacheRedis, RedisAddr: "localhost:6379", RedisDB: 2, RedisPrefix: "tr:"}
	if err := printCachePath(&buf, cfg); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "redis://localhost:6379/2 tr:" {
		t.Errorf("redis path = %q", got)
	}
}
