package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestCacheBasicOperations(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Set and Get", func(t *testing.T) {
		cache.Set("k", "v")
		got, exists := cache.Get("k")
		if !exists {
			t.Error("Expected key to exist")
		}
		if got != "v" {
			t.Errorf("Expected %q, got %q", "v", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		if _, exists := cache.Get("missing"); exists {
			t.Error("Expected key to not exist")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		cache.Set("doomed", "v")
		cache.Delete("doomed")
		if _, exists := cache.Get("doomed"); exists {
			t.Error("Expected key to be deleted")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		cache.Set("a", "1")
		cache.Set("b", "2")
		cache.Clear()
		if _, exists := cache.Get("a"); exists {
			t.Error("Expected cache to be empty after Clear")
		}
	})

	t.Run("SetTo", func(t *testing.T) {
		cache.SetTo(map[string]string{"x": "1", "y": "2"})
		if got, _ := cache.Get("y"); got != "2" {
			t.Errorf("Expected %q, got %q", "2", got)
		}
	})
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache[string, int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			cache.Set(fmt.Sprintf("key-%d", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			cache.Get(fmt.Sprintf("key-%d", n))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		if got, exists := cache.Get(fmt.Sprintf("key-%d", i)); !exists || got != i {
			t.Errorf("Expected key-%d = %d, got %d (exists=%v)", i, i, got, exists)
		}
	}
}
