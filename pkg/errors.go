// Package pkg, projede paylaşılan yardımcıları barındırır.
// Bu dosya domain seviyesindeki hata tanımlarını içerir.
//
// Servisler bu hataları fmt.Errorf("%w: ...") ile sarar, handler katmanı
// errors.Is ile yakalayıp HTTP status koduna çevirir:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

// Domain-level error'lar.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyExists   = errors.New("already exists")
	ErrBadRequest      = errors.New("bad request")
	ErrConflict        = errors.New("conflict")
	ErrTooManyRequests = errors.New("too many requests")
	ErrInternal        = errors.New("internal error")
)
