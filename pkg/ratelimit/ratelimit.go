// Package ratelimit, in-memory sabit pencereli istek sınırlayıcı.
//
// Login denemeleri (IP + e-posta başına) ve public iletişim formu (IP başına)
// aynı Limiter tipini farklı limitlerle kullanır. Tek instance deploy için
// tasarlanmıştır; sayaçlar process belleğinde tutulur.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

type bucket struct {
	count       int
	windowStart time.Time
}

// Limiter, key başına pencere içindeki istek sayısını sınırlar.
//
//	limiter := ratelimit.New(5, 2*time.Minute)
//	defer limiter.Close()
//	if !limiter.Allow(key) { return 429 }
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	max     int
	window  time.Duration
	now     func() time.Time

	stop chan struct{}
	done chan struct{}
}

// New, limiter oluşturur ve süresi dolan sayaçları temizleyen goroutine'i başlatır.
// Close çağrılana kadar goroutine çalışır.
func New(max int, window time.Duration) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		max:     max,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow, isteği sayar ve limit aşılmadıysa true döner.
// Reddedilen istekler de sayılır.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) >= l.window {
		l.buckets[key] = &bucket{count: 1, windowStart: now}
		return l.max > 0
	}

	b.count++
	return b.count <= l.max
}

// Reset, key'in sayacını siler. Başarılı login sonrası çağrılır.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.buckets, key)
	l.mu.Unlock()
}

// RetryAfter, pencerenin bitmesine kalan süre. Retry-After header'ı için yukarı yuvarlanır.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		return 0
	}
	remaining := l.window - l.now().Sub(b.windowStart)
	if remaining <= 0 {
		return 0
	}
	return remaining.Round(time.Second) + time.Second
}

// Close, temizleme goroutine'ini durdurur ve bitmesini bekler.
func (l *Limiter) Close() {
	close(l.stop)
	<-l.done
}

func (l *Limiter) cleanupLoop() {
	defer close(l.done)

	interval := l.window
	if interval > time.Minute || interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if now.Sub(b.windowStart) >= l.window {
			delete(l.buckets, key)
		}
	}
}

// RetryMessage, bekleme süresini kullanıcıya gösterilecek metne çevirir.
func RetryMessage(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds >= 60 {
		return fmt.Sprintf("too many attempts, try again in %d minute(s)", (seconds+59)/60)
	}
	return fmt.Sprintf("too many attempts, try again in %d second(s)", seconds)
}
