package classification

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/smart-expense/internal/service"
)

// DefaultCacheTTL is how long a suggestion is reused for the same description.
const DefaultCacheTTL = 15 * time.Minute

type cacheEntry struct {
	expiry   time.Time
	category string
}

// CachingClassifier remembers suggestions per normalized description so
// statements full of repeated merchants are classified once per merchant.
// Failed classifications are not cached.
type CachingClassifier struct {
	next    service.Classifier
	entries map[string]cacheEntry
	now     func() time.Time
	ttl     time.Duration
	mu      sync.Mutex
}

var _ service.Classifier = (*CachingClassifier)(nil)

// NewCachingClassifier wraps next with a TTL cache. A zero ttl uses DefaultCacheTTL.
func NewCachingClassifier(next service.Classifier, ttl time.Duration) *CachingClassifier {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &CachingClassifier{
		next:    next,
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Classify returns the cached label for text or asks the wrapped classifier.
func (c *CachingClassifier) Classify(ctx context.Context, text string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(text))

	if category, ok := c.get(key); ok {
		return category, nil
	}

	category, err := c.next.Classify(ctx, text)
	if err != nil {
		return "", err
	}
	c.set(key, category)
	return category, nil
}

func (c *CachingClassifier) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().After(entry.expiry) {
		delete(c.entries, key)
		return "", false
	}
	return entry.category, true
}

func (c *CachingClassifier) set(key, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		category: category,
		expiry:   c.now().Add(c.ttl),
	}
}

// Len returns the number of cached descriptions, expired ones included.
func (c *CachingClassifier) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
