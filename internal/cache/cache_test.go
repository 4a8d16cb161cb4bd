package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type entry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	now := time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	var got entry
	if err := m.Get(ctx, "k", &got); !errors.Is(err, ErrMiss) {
		t.Fatalf("empty Get err = %v", err)
	}

	if err := m.Set(ctx, "k", entry{Name: "btc", Value: 1.5}, time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := m.Set(ctx, "forever", entry{Name: "eth"}, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.Get(ctx, "k", &got); err != nil || got.Name != "btc" || got.Value != 1.5 {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	now = now.Add(2 * time.Minute)
	if err := m.Get(ctx, "k", &got); !errors.Is(err, ErrMiss) {
		t.Fatalf("expired Get err = %v", err)
	}
	if err := m.Get(ctx, "forever", &got); err != nil || got.Name != "eth" {
		t.Fatalf("non-expiring Get = %+v, %v", got, err)
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)

	for _, k := range []string{"a", "b", "c"} {
		if err := m.Set(ctx, k, entry{Name: k}, 0); err != nil {
			t.Fatal(err)
		}
	}
	var got entry
	if err := m.Get(ctx, "a", &got); err != nil {
		t.Fatalf("Get a: %v", err)
	}
	if err := m.Set(ctx, "d", entry{Name: "d"}, 0); err != nil {
		t.Fatal(err)
	}

	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}
	if err := m.Get(ctx, "b", &got); !errors.Is(err, ErrMiss) {
		t.Fatalf("b should be evicted, err = %v", err)
	}
	for _, k := range []string{"a", "c", "d"} {
		if err := m.Get(ctx, k, &got); err != nil || got.Name != k {
			t.Fatalf("Get %s = %+v, %v", k, got, err)
		}
	}

	// 覆盖已有 key 不增加条目
	if err := m.Set(ctx, "a", entry{Name: "a2"}, 0); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 3 {
		t.Fatalf("Len after overwrite = %d", m.Len())
	}
}

func TestMemorySweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(100000)
	now := time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for i := 0; i < 50000; i++ {
		if err := m.Set(ctx, fmt.Sprintf("forecast:bitcoin:%d", i), entry{Value: float64(i)}, time.Second); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Set(ctx, "forever", entry{Name: "keep"}, 0); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 50001 {
		t.Fatalf("Len = %d before expiry", m.Len())
	}

	now = now.Add(2 * time.Minute)
	if err := m.Set(ctx, "fresh", entry{Name: "fresh"}, time.Hour); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 {
		t.Fatalf("Len after sweep = %d, want 2", m.Len())
	}
	var got entry
	if err := m.Get(ctx, "forever", &got); err != nil || got.Name != "keep" {
		t.Fatalf("non-expiring entry lost: %+v, %v", got, err)
	}
}

func TestRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	r, err := NewRedis(ctx, mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer r.Close()

	var got entry
	if err := r.Get(ctx, "k", &got); !errors.Is(err, ErrMiss) {
		t.Fatalf("empty Get err = %v", err)
	}
	if err := r.Set(ctx, "k", entry{Name: "gold", Value: 3686.4}, time.Hour); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists(keyPrefix + "k") {
		t.Fatal("key not written with prefix")
	}
	if err := r.Get(ctx, "k", &got); err != nil || got.Name != "gold" || got.Value != 3686.4 {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	mr.FastForward(2 * time.Hour)
	if err := r.Get(ctx, "k", &got); !errors.Is(err, ErrMiss) {
		t.Fatalf("expired Get err = %v", err)
	}
	if err := r.Ping(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedis(context.Background(), addr, "", 0); err == nil {
		t.Fatal("expected connection error")
	}
}
