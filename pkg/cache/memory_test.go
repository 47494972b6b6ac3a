package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	m := NewMemory(4)
	m.Set("k", 42, time.Minute)
	v, err := m.Get("k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(int) != 42 {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestMiss(t *testing.T) {
	m := NewMemory(4)
	if _, err := m.Get("absent"); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestExpiry(t *testing.T) {
	m := NewMemory(4)
	m.Set("k", "v", time.Nanosecond)
	time.Sleep(5 * time.Millisecond)
	if _, err := m.Get("k"); err != ErrCacheMiss {
		t.Fatalf("expected expired entry to miss, got %v", err)
	}
}

func TestEviction(t *testing.T) {
	m := NewMemory(2)
	m.Set("a", 1, time.Minute)
	time.Sleep(time.Millisecond)
	m.Set("b", 2, time.Minute)
	time.Sleep(time.Millisecond)
	m.Set("c", 3, time.Minute)
	if _, err := m.Get("a"); err != ErrCacheMiss {
		t.Fatalf("oldest entry should have been evicted")
	}
	if _, err := m.Get("c"); err != nil {
		t.Fatalf("newest entry must survive: %v", err)
	}
}

func TestFlush(t *testing.T) {
	m := NewMemory(4)
	m.Set("k", 1, time.Minute)
	m.Flush()
	if _, err := m.Get("k"); err != ErrCacheMiss {
		t.Fatalf("expected empty cache after flush")
	}
}
