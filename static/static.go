// Package static, panel frontend'inin build çıktısını binary'ye gömer ve servis eder.
//
// Build sırasında frontend çıktısı static/dist/ dizinine kopyalanır.
// Development modunda dist/ boş olabilir (.gitkeep); bu durumda Handler
// 404 döner ve frontend kendi dev server'ından servis edilir.
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// FrontendFS, dist/ dizinindeki frontend build dosyalarını içerir.
// "all:" prefix'i .gitkeep gibi nokta ile başlayan dosyaları da dahil eder.
//
//go:embed all:dist
var FrontendFS embed.FS

// Handler, gömülü frontend'i SPA fallback ile servis eder.
func Handler() http.Handler {
	dist, err := fs.Sub(FrontendFS, "dist")
	if err != nil {
		// embed dizini derleme zamanında garanti edilir.
		panic(err)
	}
	return newSPAHandler(dist)
}

// newSPAHandler, var olan dosyaları doğrudan, bilinmeyen path'leri index.html
// ile döner. /api/ ve /ws altındaki path'ler hiçbir zaman index.html'e düşmez.
func newSPAHandler(fsys fs.FS) http.Handler {
	files := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/ws" {
			http.NotFound(w, r)
			return
		}

		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}
		if _, err := fs.Stat(fsys, name); err == nil {
			files.ServeHTTP(w, r)
			return
		}

		index, err := fs.ReadFile(fsys, "index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(index)
	})
}
