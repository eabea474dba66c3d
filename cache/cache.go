package cache

import (
	"sync"
	"time"

	"github.com/wzlphp/asin-ai/models"
)

// Cache is the optional result cache collaborator. The analyzer is
// correct with or without one; a nil cache simply means every request
// pays for a fresh fetch.
type Cache interface {
	Get(asin, marketplace string) (*models.Analysis, bool)
	Put(asin, marketplace string, a *models.Analysis)
}

type entry struct {
	analysis  *models.Analysis
	expiresAt time.Time
}

// Memory is a TTL-bound in-process cache keyed by ASIN + marketplace.
// Expired entries are swept by a background loop and also rejected on
// read, so a stale hit is impossible between sweeps.
type Memory struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry
	done    chan struct{}
	once    sync.Once
}

func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go m.sweep()
	return m
}

func key(asin, marketplace string) string {
	return marketplace + ":" + asin
}

func (m *Memory) Get(asin, marketplace string) (*models.Analysis, bool) {
	m.mu.RLock()
	e, ok := m.entries[key(asin, marketplace)]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.analysis, true
}

func (m *Memory) Put(asin, marketplace string, a *models.Analysis) {
	m.mu.Lock()
	m.entries[key(asin, marketplace)] = entry{
		analysis:  a,
		expiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Unlock()
}

// Close stops the sweep loop. Safe to call more than once.
func (m *Memory) Close() {
	m.once.Do(func() { close(m.done) })
}

// minSweepInterval floors the sweep cadence. A ticker cannot run on a
// non-positive interval; correctness never depends on the cadence
// because expired entries are also rejected on read.
const minSweepInterval = time.Second

func (m *Memory) sweep() {
	interval := m.ttl
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for k, e := range m.entries {
				if now.After(e.expiresAt) {
					delete(m.entries, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
