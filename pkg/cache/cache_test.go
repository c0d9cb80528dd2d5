package cache_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sandrolain/scoreplot/pkg/cache"
	"github.com/sandrolain/scoreplot/pkg/types"
)

func newExpr(source string) *types.Expression {
	return types.NewExpression(nil, source, "x", func(x float64) float64 { return x })
}

func TestCacheNew(t *testing.T) {
	c := cache.New(10)
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache, got %d", got)
	}
	if got := c.Capacity(); got != 10 {
		t.Fatalf("expected capacity 10, got %d", got)
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := cache.New(0)
	if got := c.Capacity(); got != 256 {
		t.Fatalf("expected default capacity 256, got %d", got)
	}
}

func TestCacheSetGet(t *testing.T) {
	c := cache.New(4)
	expr := newExpr("sum(x,1)")
	c.Set("sum(x,1)", expr)
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
	got, ok := c.Get("sum(x,1)")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != expr {
		t.Fatal("expected same expression pointer")
	}
}

func TestCacheReplace(t *testing.T) {
	c := cache.New(4)
	c.Set("k", newExpr("a"))
	replacement := newExpr("b")
	c.Set("k", replacement)
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
	if got, _ := c.Get("k"); got != replacement {
		t.Fatal("expected the replacement expression")
	}
}

func TestCacheMiss(t *testing.T) {
	c := cache.New(4)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := cache.New(3)
	for _, k := range []string{"a", "b", "c", "d"} {
		c.Set(k, newExpr(k))
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal(`expected "a" to be evicted (LRU)`)
	}
	if _, ok := c.Get("d"); !ok {
		t.Fatal(`expected most-recently-inserted "d" to survive`)
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Fatalf("expected 1 eviction, got %d", got)
	}
}

func TestCacheGetRefreshesRecency(t *testing.T) {
	c := cache.New(2)
	c.Set("a", newExpr("a"))
	c.Set("b", newExpr("b"))
	c.Get("a")
	c.Set("c", newExpr("c"))
	if _, ok := c.Get("a"); !ok {
		t.Fatal(`expected recently read "a" to survive`)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal(`expected "b" to be evicted`)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := cache.New(4)
	c.Set("k", newExpr("k"))
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after Invalidate")
	}
	c.Invalidate("absent")
}

func TestCacheClear(t *testing.T) {
	c := cache.New(4)
	c.Set("a", newExpr("a"))
	c.Set("b", newExpr("b"))
	c.Get("a")
	c.Clear()
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache after Clear, got %d", got)
	}
	if got := c.Stats().Hits; got != 1 {
		t.Fatalf("Clear should keep counters, hits = %d", got)
	}
}

func TestCacheGetOrCompile(t *testing.T) {
	c := cache.New(4)
	calls := 0
	compile := func() (*types.Expression, error) {
		calls++
		return newExpr("sum(x,1)"), nil
	}

	first, err := c.GetOrCompile("sum(x,1)", compile)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.GetOrCompile("sum(x,1)", compile)
	if err != nil {
		t.Fatal(err)
	}
	if first != second || calls != 1 {
		t.Fatalf("expected one compilation and a shared result, got %d calls", calls)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("hits/misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
}

func TestCacheGetOrCompileError(t *testing.T) {
	c := cache.New(4)
	boom := errors.New("boom")
	_, err := c.GetOrCompile("bad", func() (*types.Expression, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected compile error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("failed compilations must not be cached")
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := cache.New(32)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%64)
				_, _ = c.GetOrCompile(key, func() (*types.Expression, error) {
					return newExpr(key), nil
				})
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > c.Capacity() {
		t.Fatalf("cache grew past capacity: %d > %d", c.Len(), c.Capacity())
	}
}
