package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/akinalp/eihracat/pkg"
)

// newID, yeni bir satır için UUID üretir.
// ID'ler Go tarafında üretilir; SQLite ve Postgres aynı SQL ile çalışır.
func newID() string {
	return uuid.NewString()
}

// now, DB'ye yazılan zaman damgaları için UTC zaman.
// SQLite'ta zamanlar metin olarak karşılaştırıldığı için hepsi UTC tutulur.
func now() time.Time {
	return time.Now().UTC()
}

// utcPtr, nullable zamanı UTC'ye çevirir.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// notFound, sql.ErrNoRows'u pkg.ErrNotFound'a çevirir; diğer hataları sarar.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", pkg.ErrNotFound, what)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// requireAffected, hiçbir satır etkilenmediyse ErrNotFound döner.
func requireAffected(res sql.Result, what string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", pkg.ErrNotFound, what)
	}
	return nil
}

// requireTransition, "WHERE status = ?" koşullu UPDATE'in satır değiştirdiğini
// doğrular. 0 satır, okunan durumun arada değiştiği anlamına gelir.
func requireTransition(res sql.Result, what string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s was modified concurrently", pkg.ErrConflict, what)
	}
	return nil
}

// encodeList, string dizisini JSON metin kolonuna yazılacak hale getirir.
func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeList, JSON metin kolonunu string dizisine çözer. Bozuk veri boş dizi döner.
func decodeList(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return []string{}
	}
	return items
}

// likePattern, LIKE için özel karakterleri kaçırır ve % ile sarar.
func likePattern(q string) string {
	return "%" + escapeLike(strings.ToLower(q)) + "%"
}

// escapeLike, LIKE joker karakterlerini ESCAPE '\' için kaçırır.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// whereBuilder, opsiyonel filtrelerden WHERE cümlesi kurar.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// pageArgs, limit/offset'i sorgu argümanlarına ekler.
func pageArgs(args []any, limit, offset int) []any {
	if limit <= 0 {
		limit = pkg.DefaultPageLimit
	}
	return append(args, limit, offset)
}
