package pkg

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination, liste endpoint'lerindeki limit/offset çiftidir.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination, ?limit=&offset= query parametrelerini okur.
// Geçersiz değerler varsayılana döner, limit MaxPageLimit ile sınırlanır.
func ParsePagination(r *http.Request) Pagination {
	p := Pagination{Limit: DefaultPageLimit}

	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		p.Offset = v
	}

	return p
}

// Percent, part/total oranını tam sayı yüzde olarak döner (yuvarlanmış).
// total sıfırsa 0 döner.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*100 + total/2) / total
}
