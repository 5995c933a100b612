package i18n

import "embed"

// embeddedLocales, locales/ altındaki çeviri dosyaları. Binary harici dosyaya ihtiyaç duymaz.
//
//go:embed locales/*.json
var embeddedLocales embed.FS
