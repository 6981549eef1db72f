package cache

import (
	"sync"
	"time"
)

type item[V any] struct {
	value      V
	expiration int64
}

// Cache es un caché en memoria con expiración por clave
type Cache[V any] struct {
	items map[string]item[V]
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New crea un caché con el TTL por defecto indicado y arranca la limpieza
// periódica de items expirados. Llamar a Close para detenerla.
func New[V any](defaultTTL, cleanupInterval time.Duration) *Cache[V] {
	c := &Cache[V]{
		items: make(map[string]item[V]),
		ttl:   defaultTTL,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.cleanupExpired(cleanupInterval)
	}
	return c
}

// Set guarda un valor en caché. Un ttl opcional reemplaza al TTL por defecto.
func (c *Cache[V]) Set(key string, value V, ttl ...time.Duration) {
	duration := c.ttl
	if len(ttl) > 0 {
		duration = ttl[0]
	}
	if duration <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item[V]{
		value:      value,
		expiration: c.now().Add(duration).UnixNano(),
	}
}

// Get obtiene un valor del caché
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	it, found := c.items[key]
	if !found {
		return zero, false
	}

	// Verificar si expiró
	if c.now().UnixNano() > it.expiration {
		return zero, false
	}

	return it.value, true
}

// Close detiene la limpieza periódica
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.purge()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[V]) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for key, it := range c.items {
		if now > it.expiration {
			delete(c.items, key)
		}
	}
}
