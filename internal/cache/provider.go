package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrMiss 缓存未命中或已过期
var ErrMiss = errors.New("cache miss")

// DefaultMemoryEntries 进程内响应缓存的默认容量
const DefaultMemoryEntries = 1024

// Provider 以 JSON 编码保存值的缓存
type Provider interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type memoryEntry struct {
	key       string
	data      []byte
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory 有容量上限的进程内 LRU 缓存，expiration 为 0 表示不过期。
// 超出容量时淘汰最久未使用的条目；过期条目在 Set 时按 sweepEvery 周期清扫。
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List // 队首为最近使用
	items      map[string]*list.Element
	now        func() time.Time

	sweepEvery time.Duration
	lastSweep  time.Time
}

// NewMemory maxEntries <= 0 时使用 DefaultMemoryEntries
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &Memory{
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
		sweepEvery: time.Minute,
	}
}

func (m *Memory) Get(ctx context.Context, key string, dest any) error {
	m.mu.Lock()
	el, ok := m.items[key]
	if !ok {
		m.mu.Unlock()
		return ErrMiss
	}
	e := el.Value.(*memoryEntry)
	if e.expired(m.now()) {
		m.removeElement(el)
		m.mu.Unlock()
		return ErrMiss
	}
	m.order.MoveToFront(el)
	data := e.data
	m.mu.Unlock()
	return json.Unmarshal(data, dest)
}

func (m *Memory) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	now := m.now()
	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = now.Add(expiration)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= m.sweepEvery {
		m.sweep(now)
	}

	if el, ok := m.items[key]; ok {
		e := el.Value.(*memoryEntry)
		e.data = b
		e.expiresAt = expiresAt
		m.order.MoveToFront(el)
		return nil
	}

	m.items[key] = m.order.PushFront(&memoryEntry{key: key, data: b, expiresAt: expiresAt})
	for m.order.Len() > m.maxEntries {
		m.removeElement(m.order.Back())
	}
	return nil
}

// Len 当前条目数（含尚未清扫的过期条目）
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory) sweep(now time.Time) {
	for el := m.order.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*memoryEntry).expired(now) {
			m.removeElement(el)
		}
		el = prev
	}
	m.lastSweep = now
}

func (m *Memory) removeElement(el *list.Element) {
	m.order.Remove(el)
	delete(m.items, el.Value.(*memoryEntry).key)
}
