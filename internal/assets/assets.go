// Package assets handles asset loading and caching from directories and
// embedded file systems.
package assets

import (
	"container/list"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

// ErrNotFound is returned when no source holds the requested file.
var ErrNotFound = errors.New("asset not found")

// source is one searchable file system.
type source struct {
	name string
	fsys fs.FS
	dir  string // on-disk root, empty for embedded sources
}

// Manager loads files from an ordered list of sources.
// Sources are searched in reverse order (last added = highest priority).
type Manager struct {
	sources []source
	cache   *Cache
	mu      sync.RWMutex

	watch *watchState
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(DefaultCacheBytes),
	}
}

// AddDir adds an on-disk directory. Files in it can be watched for changes.
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset dir %s is not a directory", dir)
	}

	m.mu.Lock()
	m.sources = append(m.sources, source{name: dir, fsys: os.DirFS(dir), dir: dir})
	m.mu.Unlock()
	return nil
}

// AddFS adds a file system such as an embed.FS.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.mu.Lock()
	m.sources = append(m.sources, source{name: name, fsys: fsys})
	m.mu.Unlock()
}

// Load loads a file by slash-separated path.
func (m *Manager) Load(name string) ([]byte, error) {
	name = clean(name)

	// Check cache first
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.sources[i].fsys, name)
		if err == nil {
			m.cache.Set(name, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s from %s: %w", name, m.sources[i].name, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Exists reports whether any source holds the file.
func (m *Manager) Exists(name string) bool {
	name = clean(name)
	if _, ok := m.cache.Get(name); ok {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.sources) - 1; i >= 0; i-- {
		if _, err := fs.Stat(m.sources[i].fsys, name); err == nil {
			return true
		}
	}
	return false
}

// Invalidate drops a cached file so the next Load reads it again.
func (m *Manager) Invalidate(name string) {
	m.cache.Delete(clean(name))
}

// Close stops watching and clears the cache.
func (m *Manager) Close() {
	m.stopWatch()

	m.mu.Lock()
	m.sources = nil
	m.mu.Unlock()
	m.cache.Clear()
}

// CacheStats returns cache hit/miss counters.
func (m *Manager) CacheStats() (hits, misses int) {
	return m.cache.Stats()
}

func clean(name string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
}

// DefaultCacheBytes bounds the cache of a new Manager.
const DefaultCacheBytes = 32 << 20

type cacheEntry struct {
	key  string
	data []byte
}

// Cache is an in-memory LRU cache of file contents bounded by total size.
// Files larger than the bound are never cached.
type Cache struct {
	limit int
	size  int
	order *list.List // front = most recently used
	items map[string]*list.Element
	mu    sync.Mutex

	hits   int
	misses int
}

// NewCache creates a cache holding at most limit bytes.
func NewCache(limit int) *Cache {
	return &Cache{
		limit: limit,
		order: list.New(),
		items: make(map[string]*list.Element),
	}
}

// Get retrieves an item and marks it as recently used.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).data, true
}

// Set stores an item, evicting the least recently used ones to stay in bounds.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(key)
	if len(data) > c.limit {
		return
	}
	c.items[key] = c.order.PushFront(&cacheEntry{key: key, data: data})
	c.size += len(data)

	for c.size > c.limit {
		c.remove(c.order.Back().Value.(*cacheEntry).key)
	}
}

func (c *Cache) remove(key string) {
	el, ok := c.items[key]
	if !ok {
		return
	}
	c.order.Remove(el)
	delete(c.items, key)
	c.size -= len(el.Value.(*cacheEntry).data)
}

// Delete removes an item from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Clear empties the cache and resets its counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
	c.size = 0
	c.hits = 0
	c.misses = 0
}

// Len returns the number of cached files and their total size.
func (c *Cache) Len() (files, bytes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items), c.size
}

// Stats returns cache hit/miss counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
