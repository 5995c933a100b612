// Package cache, süreli (TTL) generic in-memory cache.
//
// Firma bazlı efektif yetki çözümlemesi her istekte 2-3 sorgu gerektirir;
// sonuç kısa süreliğine burada tutulur. Rol veya üyelik değiştiğinde ilgili
// kayıtlar DeleteFunc ile geçersiz kılınır. Her silme bir nesil sayacını
// artırır; silmeden önce başlamış bir GetOrLoad sonucunu yazmaz.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, thread-safe generic cache.
//
//	perms := cache.New[string, models.Permission](30*time.Second, time.Minute)
//	defer perms.Close()
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	gen     uint64 // Delete/DeleteFunc ile artar
	ttl     time.Duration
	now     func() time.Time

	stop chan struct{}
	done chan struct{}
}

// New, cache oluşturur. cleanupInterval aralıklarla süresi dolan kayıtlar
// map'ten silinir; Get süresi dolmuş kaydı zaten döndürmez.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stop:
				return
			}
		}
	}()

	return c
}

// Get, süresi dolmamış değeri döner.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, değeri TTL ile yazar.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// GetOrLoad, cache'te yoksa load'u çağırır ve başarılı sonucu saklar.
// Hatalar cache'lenmez. load sürerken bir silme olduysa sonuç döner ama
// saklanmaz; aksi halde silinmiş bir değer tekrar yazılabilirdi.
func (c *TTLCache[K, V]) GetOrLoad(ctx context.Context, key K, load func(ctx context.Context) (V, error)) (V, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	gen := c.gen
	c.mu.RUnlock()
	if ok && c.now().Before(e.expiresAt) {
		return e.value, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.entries[key] = entry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
	}
	c.mu.Unlock()
	return v, nil
}

// Delete, tek bir kaydı siler.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gen++
	c.mu.Unlock()
}

// DeleteFunc, predicate'in true döndüğü tüm kayıtları siler.
// Örn. bir firmanın tüm kullanıcılarının yetkilerini geçersiz kılmak için.
func (c *TTLCache[K, V]) DeleteFunc(predicate func(key K) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for key := range c.entries {
		if predicate(key) {
			delete(c.entries, key)
		}
	}
}

// Len, map'teki kayıt sayısı (süresi dolmuş ama henüz silinmemişler dahil).
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close, temizleme goroutine'ini durdurur.
func (c *TTLCache[K, V]) Close() {
	close(c.stop)
	<-c.done
}

func (c *TTLCache[K, V]) evictExpired() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
