// Package assets loads and caches UI images from disk.
package assets

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Cache decodes images once and keeps them in memory. Loads requested
// through Prefetch run on background workers.
type Cache struct {
	dir        string
	images     map[string]*image.RGBA
	imagesMu   sync.RWMutex
	inFlight   map[string]chan struct{}
	inFlightMu sync.Mutex
	loadQueue  chan string
	wg         sync.WaitGroup
}

// NewCache creates an asset cache rooted at dir
func NewCache(dir string, workers int) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}

	c := &Cache{
		dir:       dir,
		images:    make(map[string]*image.RGBA),
		inFlight:  make(map[string]chan struct{}),
		loadQueue: make(chan string, 256),
	}

	// Start background workers for prefetching
	for i := 0; i < workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}

	return c, nil
}

func (c *Cache) worker() {
	defer c.wg.Done()
	for name := range c.loadQueue {
		if _, err := c.load(name); err != nil {
			slog.Debug("asset prefetch failed", "name", name, "error", err)
		}
	}
}

// Close shuts down the cache workers
func (c *Cache) Close() {
	close(c.loadQueue)
	c.wg.Wait()
}

func (c *Cache) path(name string) string {
	return filepath.Join(c.dir, name)
}

// Get returns a decoded image, loading it if necessary
func (c *Cache) Get(name string) (*image.RGBA, error) {
	c.imagesMu.RLock()
	img, ok := c.images[name]
	c.imagesMu.RUnlock()
	if ok {
		return img, nil
	}

	return c.load(name)
}

// load decodes an asset from disk and caches it
func (c *Cache) load(name string) (*image.RGBA, error) {
	c.imagesMu.RLock()
	img, ok := c.images[name]
	c.imagesMu.RUnlock()
	if ok {
		return img, nil
	}

	// Check if a load is already in progress
	c.inFlightMu.Lock()
	if ch, exists := c.inFlight[name]; exists {
		c.inFlightMu.Unlock()
		<-ch // Wait for the in-flight load to complete
		c.imagesMu.RLock()
		img, ok := c.images[name]
		c.imagesMu.RUnlock()
		if ok {
			return img, nil
		}
		return nil, fmt.Errorf("asset %q did not load", name)
	}

	// Mark as in-flight
	ch := make(chan struct{})
	c.inFlight[name] = ch
	c.inFlightMu.Unlock()

	defer func() {
		c.inFlightMu.Lock()
		delete(c.inFlight, name)
		close(ch)
		c.inFlightMu.Unlock()
	}()

	f, err := os.Open(c.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset %q: %w", name, err)
	}

	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, image.Point{}, draw.Src)

	c.imagesMu.Lock()
	c.images[name] = rgba
	c.imagesMu.Unlock()

	return rgba, nil
}

// Prefetch queues assets for background loading
func (c *Cache) Prefetch(names ...string) {
	for _, name := range names {
		if c.IsLoaded(name) {
			continue
		}
		// Non-blocking send to queue
		select {
		case c.loadQueue <- name:
		default:
			// Queue full, skip
		}
	}
}

// PreloadAll queues every image in the asset directory
func (c *Cache) PreloadAll() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			c.Prefetch(e.Name())
		}
	}
	return nil
}

// IsLoaded checks if an asset is already decoded
func (c *Cache) IsLoaded(name string) bool {
	c.imagesMu.RLock()
	defer c.imagesMu.RUnlock()
	_, ok := c.images[name]
	return ok
}
