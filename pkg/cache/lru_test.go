package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestLRU_Basic(t *testing.T) {
	cache := NewLRU[string, int](2)

	cache.Put("a", 1)
	cache.Put("b", 2)

	if val, ok := cache.Get("a"); !ok || val != 1 {
		t.Errorf("Expected a=1, got %v", val)
	}

	// Cache is full; "b" is least recently used and goes.
	cache.Put("c", 3)

	if _, ok := cache.Get("b"); ok {
		t.Error("Expected 'b' to be evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("Expected 'a' to exist")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("Expected 'c' to exist")
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d; want 2", cache.Len())
	}
}

func TestLRU_UpdateExisting(t *testing.T) {
	cache := NewLRU[string, int](2)

	cache.Put("a", 1)
	cache.Put("a", 10)

	if val, ok := cache.Get("a"); !ok || val != 10 {
		t.Errorf("Expected a=10, got %v", val)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d; want 1", cache.Len())
	}
}

func TestLRU_DeleteAndClear(t *testing.T) {
	cache := NewLRU[int, string](0)
	cache.Put(1, "one")
	cache.Put(2, "two")

	if !cache.Delete(1) {
		t.Error("Delete(1) = false; want true")
	}
	if cache.Delete(1) {
		t.Error("second Delete(1) = true; want false")
	}
	if _, ok := cache.Get(1); ok {
		t.Error("Expected 1 to be gone")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d", cache.Len())
	}
	cache.Put(3, "three")
	if v, ok := cache.Get(3); !ok || v != "three" {
		t.Errorf("Get(3) after Clear = %q, %v", v, ok)
	}
}

func TestLRU_Concurrency(t *testing.T) {
	cache := NewLRU[string, int](100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key_%d_%d", id, j)
				cache.Put(key, j)
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() != 100 {
		t.Errorf("Len() = %d; want 100", cache.Len())
	}
}
