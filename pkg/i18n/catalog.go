package i18n

import (
	"context"
	"embed"
	"errors"
	"sort"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when a catalog is created without an explicit language.
const DefaultLanguage = "en"

//go:embed locales/*.yaml
var builtinLocales embed.FS

// Catalog holds bundles for several languages and tracks the active one.
// Listeners are notified with the resolved bundle whenever the active
// language changes, which is how rule registries reload their messages.
type Catalog struct {
	mu        sync.RWMutex
	bundles   map[string]*Bundle
	lang      string
	fallback  string
	listeners map[int]func(*Bundle)
	nextID    int
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithFallback sets the language consulted for keys missing in the active bundle.
func WithFallback(lang string) CatalogOption {
	return func(c *Catalog) {
		if tag, err := normalizeLang(lang); err == nil {
			c.fallback = tag
		}
	}
}

// NewCatalog creates a catalog from bundles keyed by language.
func NewCatalog(bundles map[string]*Bundle, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		bundles:   make(map[string]*Bundle, len(bundles)),
		lang:      DefaultLanguage,
		fallback:  DefaultLanguage,
		listeners: make(map[int]func(*Bundle)),
	}
	for _, b := range bundles {
		c.add(b)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	builtinOnce    sync.Once
	builtinBundles map[string]*Bundle
	builtinErr     error
)

// Builtin returns the bundles shipped with the package (English and Chinese).
// Each call returns fresh copies.
func Builtin() map[string]*Bundle {
	builtinOnce.Do(func() {
		builtinBundles = make(map[string]*Bundle)
		entries, err := builtinLocales.ReadDir("locales")
		if err != nil {
			builtinErr = err
			return
		}
		for _, e := range entries {
			content, err := builtinLocales.ReadFile("locales/" + e.Name())
			if err != nil {
				builtinErr = errors.Join(builtinErr, err)
				continue
			}
			parsed, err := YAMLParser{}.Parse(context.Background(), content)
			if err != nil {
				builtinErr = errors.Join(builtinErr, err)
				continue
			}
			for lang, b := range parsed {
				builtinBundles[lang] = b
			}
		}
	})
	if builtinErr != nil {
		panic("i18n: broken builtin locales: " + builtinErr.Error())
	}
	out := make(map[string]*Bundle, len(builtinBundles))
	for lang, b := range builtinBundles {
		out[lang] = b.Clone()
	}
	return out
}

// Add merges b into the catalog's bundle for the same language.
func (c *Catalog) Add(b *Bundle) {
	if b == nil {
		return
	}
	c.mu.Lock()
	c.add(b)
	active := c.lang == b.Lang
	c.mu.Unlock()
	if active {
		c.notify()
	}
}

func (c *Catalog) add(b *Bundle) {
	tag, err := normalizeLang(b.Lang)
	if err != nil {
		return
	}
	existing, ok := c.bundles[tag]
	if !ok {
		existing = NewBundle(tag)
		c.bundles[tag] = existing
	}
	existing.Merge(b)
}

// Languages returns the languages with a bundle, sorted.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	langs := make([]string, 0, len(c.bundles))
	for lang := range c.bundles {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Language returns the active language.
func (c *Catalog) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lang
}

// SetLanguage switches the active language. Regional tags fall back to their
// base language ("en-GB" uses "en" when no "en-GB" bundle exists).
func (c *Catalog) SetLanguage(lang string) error {
	tag, err := normalizeLang(lang)
	if err != nil {
		return err
	}
	c.mu.Lock()
	resolved, ok := c.resolve(tag)
	if !ok {
		c.mu.Unlock()
		return &ErrLanguageNotSupported{Lang: lang}
	}
	changed := resolved != c.lang
	c.lang = resolved
	c.mu.Unlock()

	if changed {
		c.notify()
	}
	return nil
}

// Current returns the active bundle with fallback messages merged underneath.
func (c *Catalog) Current() *Bundle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current()
}

func (c *Catalog) current() *Bundle {
	out := NewBundle(c.lang)
	if fb, ok := c.bundles[c.fallback]; ok && c.fallback != c.lang {
		out.Merge(fb)
	}
	out.Merge(c.bundles[c.lang])
	return out
}

// Message looks a key up in the active bundle, then in the fallback bundle.
func (c *Catalog) Message(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if msg, ok := c.bundles[c.lang].Message(key); ok {
		return msg, true
	}
	return c.bundles[c.fallback].Message(key)
}

// OnChange registers fn to receive the active bundle after every language
// switch. fn is also invoked once immediately. The returned function removes
// the listener.
func (c *Catalog) OnChange(fn func(*Bundle)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	current := c.current()
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Catalog) notify() {
	c.mu.RLock()
	current := c.current()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(*Bundle), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(current)
	}
}

func (c *Catalog) resolve(tag string) (string, bool) {
	if _, ok := c.bundles[tag]; ok {
		return tag, true
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	base, _ := t.Base()
	if _, ok := c.bundles[base.String()]; ok {
		return base.String(), true
	}
	return "", false
}

func normalizeLang(lang string) (string, error) {
	t, err := language.Parse(lang)
	if err != nil {
		return "", errors.Join(ErrInvalidLanguage, err)
	}
	return t.String(), nil
}
