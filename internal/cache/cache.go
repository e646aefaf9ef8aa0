// Package cache holds solved prompt structures keyed by the normalized
// request tuple, so repeated identical requests skip the solver. Feedback
// invalidates the whole cache; entries otherwise never expire.
package cache

import (
	"sort"
	"strings"
	"sync"

	"github.com/inferprompt/inferprompt/internal/domain/models"
)

// DefaultCapacity bounds the cache when the caller does not.
const DefaultCapacity = 32

type entry struct {
	components []models.PromptComponent
	score      float64
}

// ResultCache is safe for concurrent use. Reads return isolated copies so
// callers can fill in content without corrupting the cached structure.
type ResultCache struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]entry
}

func New(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ResultCache{
		capacity: capacity,
		entries:  make(map[string]entry, capacity),
	}
}

// Key normalizes a request tuple: sorted unique tasks and behaviors, the
// model name, and the domain or "none".
func Key(tasks []models.TaskType, behaviors []models.BehaviorType, model string, domain *string) string {
	ts := make([]string, 0, len(tasks))
	seenT := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if !seenT[string(t)] {
			seenT[string(t)] = true
			ts = append(ts, string(t))
		}
	}
	sort.Strings(ts)

	bs := make([]string, 0, len(behaviors))
	seenB := make(map[string]bool, len(behaviors))
	for _, b := range behaviors {
		if !seenB[string(b)] {
			seenB[string(b)] = true
			bs = append(bs, string(b))
		}
	}
	sort.Strings(bs)

	d := "none"
	if domain != nil {
		d = *domain
	}
	return strings.Join(ts, ",") + "|" + strings.Join(bs, ",") + "|" + model + "|" + d
}

// Get returns a copy of the cached structure for key, if any.
func (c *ResultCache) Get(key string) ([]models.PromptComponent, float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, 0, false
	}
	return append([]models.PromptComponent(nil), e.components...), e.score, true
}

// Put stores a copy of the structure under key. At capacity an arbitrary
// entry is evicted first; which one falls out is not specified.
func (c *ResultCache) Put(key string, components []models.PromptComponent, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = entry{
		components: append([]models.PromptComponent(nil), components...),
		score:      score,
	}
}

// Clear drops every entry.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry, c.capacity)
}

// Len reports the number of cached structures.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
