// Package catalog loads the embedded translation files and exposes them as
// an x/text message catalog.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	xcatalog "golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale holds every key. Other locales may omit keys and fall back to it.
const BaseLocale = "en"

const filePattern = "locales/*/*.yaml"

// file is one locales/<locale>/<namespace>.yaml document.
type file struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle maps locale to message key to text.
type Bundle struct {
	locales map[string]map[string]string
}

//go:embed locales/*/*.yaml
var embedded embed.FS

var (
	defaultBundle  = must(LoadEmbedded())
	defaultCatalog = must(defaultBundle.Build())
)

// Default returns the embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

// DefaultCatalog returns the embedded bundle compiled for message printers.
func DefaultCatalog() xcatalog.Catalog {
	return defaultCatalog
}

// LoadEmbedded loads the catalog files shipped with the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embedded)
}

// LoadFromFS loads every locales/<locale>/<namespace>.yaml file in fsys.
// Keys must carry their namespace prefix, each key is defined once per
// locale, and no locale may define a key the base locale lacks.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, filePattern)
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files match %s", filePattern)
	}
	slices.Sort(paths)

	b := &Bundle{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var f file
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, f); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
	}

	base, ok := b.locales[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s has no catalogs", BaseLocale)
	}
	for locale, messages := range b.locales {
		for key := range messages {
			if _, ok := base[key]; !ok {
				return nil, fmt.Errorf("locale %s: key %q missing from base locale", locale, key)
			}
		}
	}
	return b, nil
}

func (b *Bundle) add(p string, f file) error {
	locale := strings.TrimSpace(f.Locale)
	if want := path.Base(path.Dir(p)); locale != want {
		return fmt.Errorf("locale %q must match directory %q", locale, want)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}
	namespace := strings.TrimSpace(f.Namespace)
	if want := strings.TrimSuffix(path.Base(p), path.Ext(p)); namespace != want {
		return fmt.Errorf("namespace %q must match file name %q", namespace, want)
	}
	if len(f.Messages) == 0 {
		return fmt.Errorf("no messages")
	}

	messages, ok := b.locales[locale]
	if !ok {
		messages = map[string]string{}
		b.locales[locale] = messages
	}
	for key, text := range f.Messages {
		key = strings.TrimSpace(key)
		if !strings.HasPrefix(key, namespace+".") {
			return fmt.Errorf("key %q must start with %q", key, namespace+".")
		}
		if _, dup := messages[key]; dup {
			return fmt.Errorf("duplicate key %q", key)
		}
		messages[key] = text
	}
	return nil
}

// Build compiles the bundle into an x/text catalog. Keys missing from a
// locale are filled with the base locale text.
func (b *Bundle) Build() (*xcatalog.Builder, error) {
	builder := xcatalog.NewBuilder(xcatalog.Fallback(language.Make(BaseLocale)))
	if b == nil {
		return builder, nil
	}
	base := b.locales[BaseLocale]
	for _, locale := range b.Locales() {
		tag := language.Make(locale)
		messages := b.LocaleMessages(locale)
		for key, text := range base {
			if _, ok := messages[key]; !ok {
				messages[key] = text
			}
		}
		for _, key := range slices.Sorted(maps.Keys(messages)) {
			if err := builder.SetString(tag, key, messages[key]); err != nil {
				return nil, fmt.Errorf("set %s message %q: %w", locale, key, err)
			}
		}
	}
	return builder, nil
}

// Locales returns the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(b.locales))
}

// LocaleMessages returns a copy of the messages defined for locale.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	return maps.Clone(b.locales[strings.TrimSpace(locale)])
}

// Message returns the text for key in locale, falling back to the base locale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	if text, ok := b.locales[strings.TrimSpace(locale)][key]; ok {
		return text, true
	}
	text, ok := b.locales[BaseLocale][key]
	return text, ok
}

// Missing lists the base locale keys that locale does not translate.
func (b *Bundle) Missing(locale string) []string {
	if b == nil {
		return nil
	}
	own := b.locales[strings.TrimSpace(locale)]
	var out []string
	for key := range b.locales[BaseLocale] {
		if _, ok := own[key]; !ok {
			out = append(out, key)
		}
	}
	slices.Sort(out)
	return out
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
