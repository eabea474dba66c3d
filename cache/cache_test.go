package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wzlphp/asin-ai/models"
)

func analysisFor(asin string) *models.Analysis {
	return &models.Analysis{
		Target:    &models.Product{ASIN: asin, Marketplace: "us"},
		CreatedAt: time.Now(),
	}
}

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()

	_, ok := m.Get("B0TARGET01", "us")
	assert.False(t, ok)

	m.Put("B0TARGET01", "us", analysisFor("B0TARGET01"))
	got, ok := m.Get("B0TARGET01", "us")
	require.True(t, ok)
	assert.Equal(t, "B0TARGET01", got.Target.ASIN)
}

func TestMemoryKeyedByMarketplace(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()

	m.Put("B0TARGET01", "us", analysisFor("B0TARGET01"))
	_, ok := m.Get("B0TARGET01", "de")
	assert.False(t, ok, "same ASIN on another marketplace is a distinct entry")
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(10 * time.Millisecond)
	defer m.Close()

	m.Put("B0TARGET01", "us", analysisFor("B0TARGET01"))
	time.Sleep(25 * time.Millisecond)

	_, ok := m.Get("B0TARGET01", "us")
	assert.False(t, ok, "expired entries must never be served")
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()

	first := analysisFor("B0TARGET01")
	second := analysisFor("B0TARGET01")
	second.Degraded = true

	m.Put("B0TARGET01", "us", first)
	m.Put("B0TARGET01", "us", second)

	got, ok := m.Get("B0TARGET01", "us")
	require.True(t, ok)
	assert.True(t, got.Degraded)
}

func TestMemoryNonPositiveTTL(t *testing.T) {
	// A zero or negative TTL must not bring the process down; entries
	// just expire immediately.
	m := NewMemory(0)
	defer m.Close()

	m.Put("B0TARGET01", "us", analysisFor("B0TARGET01"))
	_, ok := m.Get("B0TARGET01", "us")
	assert.False(t, ok)

	neg := NewMemory(-time.Minute)
	defer neg.Close()
	neg.Put("B0TARGET01", "us", analysisFor("B0TARGET01"))
	_, ok = neg.Get("B0TARGET01", "us")
	assert.False(t, ok)
}

func TestMemoryCloseIsIdempotent(t *testing.T) {
	m := NewMemory(time.Minute)
	m.Close()
	m.Close()
}
