// Package i18n, e-posta konuları ve gövde metinleri gibi kullanıcıya giden
// sunucu tarafı metinlerin tr/en çevirilerini sağlar.
//
// Dil şu sırayla belirlenir:
//  1. Açıkça verilen dil (ör. istek gövdesindeki tercih)
//  2. Accept-Language header'ı
//  3. Varsayılan dil (tr)
//
//	cat, _ := i18n.Default()
//	cat.T("tr", "email.reset.subject")
package i18n

import (
	"fmt"
	"io/fs"
	"strings"

	json "github.com/goccy/go-json"
)

// DefaultLanguage, platformun ana dili.
const DefaultLanguage = "tr"

// SupportedLanguages, locales/ altında dosyası olan diller.
var SupportedLanguages = []string{"tr", "en"}

// Catalog, dil → düz anahtar → metin haritası. Yüklendikten sonra salt okunurdur.
type Catalog struct {
	messages map[string]map[string]string
}

// Default, binary'ye gömülü çevirilerden Catalog yükler.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load, fsys içindeki <lang>.json dosyalarını okur.
// İç içe JSON nokta notasyonuna çevrilir: {"email":{"reset":{"subject":"..."}}} → "email.reset.subject".
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{messages: make(map[string]map[string]string, len(SupportedLanguages))}

	for _, lang := range SupportedLanguages {
		data, err := fs.ReadFile(fsys, lang+".json")
		if err != nil {
			return nil, fmt.Errorf("failed to read translation file %s.json: %w", lang, err)
		}

		var nested map[string]any
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, fmt.Errorf("failed to parse translation file %s.json: %w", lang, err)
		}

		flat := make(map[string]string)
		flatten("", nested, flat)
		c.messages[lang] = flat
	}
	return c, nil
}

// T, anahtarın çevirisini döner. Bulamazsa varsayılan dile, o da yoksa anahtara düşer.
func (c *Catalog) T(lang, key string) string {
	if msg, ok := c.messages[Normalize(lang)][key]; ok {
		return msg
	}
	if msg, ok := c.messages[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TParams, {{name}} yer tutucularını değerlerle değiştirir.
func (c *Catalog) TParams(lang, key string, params map[string]string) string {
	msg := c.T(lang, key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// Keys, bir dildeki anahtar sayısı.
func (c *Catalog) Keys(lang string) int {
	return len(c.messages[lang])
}

// Normalize, "en-US" gibi değerleri desteklenen koda indirger. Desteklenmiyorsa varsayılan dil.
func Normalize(lang string) string {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(lang)), "-")
	for _, l := range SupportedLanguages {
		if l == base {
			return l
		}
	}
	return DefaultLanguage
}

// Detect, Accept-Language header'ındaki ilk desteklenen dili döner.
// "tr-TR,tr;q=0.9,en;q=0.8" → "tr"
func Detect(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(part, ";")
		base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
		for _, l := range SupportedLanguages {
			if l == base {
				return l
			}
		}
	}
	return DefaultLanguage
}

func flatten(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flatten(key, val, dst)
		}
	}
}
