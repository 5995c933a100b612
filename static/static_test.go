package static

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":       {Data: []byte("<html>panel</html>")},
		"assets/app.js":    {Data: []byte("console.log(1)")},
		"assets/style.css": {Data: []byte("body{}")},
	}
}

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSPAHandler_ServesExistingFile(t *testing.T) {
	rec := serve(t, newSPAHandler(testFS()), "/assets/app.js")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())
}

func TestSPAHandler_FallsBackToIndex(t *testing.T) {
	rec := serve(t, newSPAHandler(testFS()), "/companies/42/projects")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>panel</html>", rec.Body.String())
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestSPAHandler_APIPathsNeverFallBack(t *testing.T) {
	h := newSPAHandler(testFS())

	assert.Equal(t, http.StatusNotFound, serve(t, h, "/api/unknown").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, h, "/ws").Code)
}

func TestSPAHandler_EmptyBuild(t *testing.T) {
	rec := serve(t, newSPAHandler(fstest.MapFS{}), "/dashboard")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
