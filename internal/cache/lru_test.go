package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestLRUGetRefreshesRecency(t *testing.T) {
	c := NewLRU[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	// Touching "a" makes "b" the oldest entry.
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("get a: want (1, true), got (%d, %v)", v, ok)
	}

	c.Put("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("%s should have survived", key)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("len: want 3, got %d", c.Len())
	}
}

func TestLRUCapacityBound(t *testing.T) {
	c := NewLRU[int, int](5)
	for i := 0; i < 100; i++ {
		c.Put(i, i)
		if c.Len() > 5 {
			t.Fatalf("len exceeded capacity after put %d: %d", i, c.Len())
		}
	}
	if c.Len() != 5 {
		t.Fatalf("final len: want 5, got %d", c.Len())
	}
	// только пять последних ключей выжили
	for i := 95; i < 100; i++ {
		if v, ok := c.Get(i); !ok || v != i {
			t.Fatalf("key %d: want (%d, true), got (%d, %v)", i, i, v, ok)
		}
	}
	if _, ok := c.Get(94); ok {
		t.Fatal("key 94 should have been evicted")
	}
}

func TestLRUPutUpdatesInPlace(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 10) // update, not insert: "b" stays

	if c.Len() != 2 {
		t.Fatalf("len after update: want 2, got %d", c.Len())
	}
	if v, _ := c.Get("a"); v != 10 {
		t.Fatalf("a: want 10, got %d", v)
	}

	// update marked "a" recent, so a new key evicts "b"
	c.Put("a", 11)
	c.Put("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
}

func TestLRURemove(t *testing.T) {
	c := NewLRU[string, int](3)
	c.Put("a", 1)
	c.Remove("a")
	c.Remove("missing") // no-op

	if _, ok := c.Get("a"); ok {
		t.Fatal("a should be gone")
	}
	if c.Len() != 0 {
		t.Fatalf("len: want 0, got %d", c.Len())
	}
}

func TestLRUMinimumCapacity(t *testing.T) {
	c := NewLRU[string, int](0)
	c.Put("a", 1)
	c.Put("b", 2)
	if c.Len() != 1 {
		t.Fatalf("len: want 1, got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("a should have been evicted by b")
	}
}

func TestLRUConcurrentAccess(t *testing.T) {
	c := NewLRU[string, int](32)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*500+i)%64)
				c.Put(key, i)
				c.Get(key)
				if i%10 == 0 {
					c.Remove(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 32 {
		t.Fatalf("len exceeded capacity: %d", c.Len())
	}
}
