// Package resources memoizes the image and sound assets an `img`/`snd`
// command resolves (spec §4.4.5), so that navigating back to a fork that
// references the same background image or sound effect does not re-read and
// re-hash the file from disk on every visit.
package resources

import (
	"encoding/hex"
	"os"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Entry is a memoized asset: its content digest and byte size, recorded the
// first time a path is resolved.
type Entry struct {
	Digest string
	Size   int64
}

// Cache is an in-process memo cache of content digests, keyed by the path
// string passed to Resolve (not made absolute). It holds no state across process runs (spec §6: "Persisted
// state: None").
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Resolve validates that path exists and is readable, memoizing its content
// digest. On a cache hit it returns immediately without touching disk. The
// returned Entry.Digest is suitable for a Console implementation that wants
// to deduplicate decoded image/audio buffers by content rather than path.
func (c *Cache) Resolve(path string) (Entry, error) {
	c.mu.Lock()
	if e, ok := c.entries[path]; ok {
		c.mu.Unlock()
		return e, nil
	}
	c.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	sum := blake2b.Sum256(data)
	e := Entry{Digest: hex.EncodeToString(sum[:]), Size: int64(len(data))}

	c.mu.Lock()
	c.entries[path] = e
	c.mu.Unlock()
	return e, nil
}

// Len reports how many distinct paths have been resolved so far.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
