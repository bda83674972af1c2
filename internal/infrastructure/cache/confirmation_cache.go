package cache

import (
	"sync"
	"time"
)

// Confirmation is a pending request to delete a transaction
type Confirmation struct {
	Token         string    `json:"token"`
	TransactionID string    `json:"transaction_id"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ConfirmationCache provides a thread-safe in-memory store of pending confirmations with expiration
type ConfirmationCache struct {
	cache      map[string]Confirmation
	expiration time.Duration
	now        func() time.Time
	mutex      sync.RWMutex
}

// NewConfirmationCache creates a new confirmation cache
func NewConfirmationCache(expiration time.Duration) *ConfirmationCache {
	if expiration <= 0 {
		expiration = 2 * time.Minute
	}

	return &ConfirmationCache{
		cache:      make(map[string]Confirmation),
		expiration: expiration,
		now:        time.Now,
	}
}

// Put stores a confirmation for the transaction under the given token
func (c *ConfirmationCache) Put(token, transactionID string) Confirmation {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry := Confirmation{
		Token:         token,
		TransactionID: transactionID,
		ExpiresAt:     c.now().Add(c.expiration),
	}
	c.cache[token] = entry

	return entry
}

// Take removes and returns the confirmation if it exists and has not expired
func (c *ConfirmationCache) Take(token string) (Confirmation, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.cache[token]
	if !exists {
		return Confirmation{}, false
	}
	delete(c.cache, token)

	if c.now().After(entry.ExpiresAt) {
		return Confirmation{}, false
	}

	return entry, true
}

// Remove drops the confirmation; unknown tokens are ignored
func (c *ConfirmationCache) Remove(token string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.cache, token)
}

// Size returns the number of items in the cache
func (c *ConfirmationCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CleanExpired removes expired entries from the cache
func (c *ConfirmationCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := c.now()

	for key, entry := range c.cache {
		if now.After(entry.ExpiresAt) {
			delete(c.cache, key)
			count++
		}
	}

	return count
}
