package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Şifre sıfırlama talebi", cat.T("tr", "email.reset.subject"))
	assert.Equal(t, "Password reset request", cat.T("en-US", "email.reset.subject"))
	assert.Equal(t, cat.Keys("tr"), cat.Keys("en"), "locale files must define the same keys")
}

func TestCatalogFallback(t *testing.T) {
	cat, err := Load(fstest.MapFS{
		"tr.json": {Data: []byte(`{"a":{"b":"TR","only":"sadece tr"}}`)},
		"en.json": {Data: []byte(`{"a":{"b":"EN"}}`)},
	})
	require.NoError(t, err)

	assert.Equal(t, "EN", cat.T("en", "a.b"))
	assert.Equal(t, "sadece tr", cat.T("en", "a.only"))
	assert.Equal(t, "missing.key", cat.T("en", "missing.key"))
	assert.Equal(t, "TR", cat.T("de", "a.b"))
}

func TestTParams(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "Welcome, Ayşe", cat.TParams("en", "email.welcome.heading", map[string]string{"name": "Ayşe"}))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(fstest.MapFS{"tr.json": {Data: []byte(`{}`)}})
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, "en", Detect("en-US,en;q=0.9"))
	assert.Equal(t, "tr", Detect("tr-TR,tr;q=0.9,en;q=0.8"))
	assert.Equal(t, "tr", Detect("de-DE"))
	assert.Equal(t, "tr", Detect(""))
}
