package site

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
)

// themeVersion is the version of stored theme values.
const themeVersion = 1

// ParseScheme validates a color scheme value.
func ParseScheme(value string) (schema.ColorScheme, error) {
	scheme := schema.ColorScheme(strings.TrimSpace(value))
	if _, ok := schema.ValidColorSchemes[scheme]; !ok {
		return "", fmt.Errorf("%w %q. must be one of \"light dark\", light, dark", schema.ErrInvalidScheme, value)
	}
	return scheme, nil
}

// SchemeLabel returns the switcher label for a scheme.
func SchemeLabel(scheme schema.ColorScheme) string {
	for _, l := range schema.ColorSchemeLabels {
		if l.Scheme == scheme {
			return l.Label
		}
	}
	return string(scheme)
}

// ThemeStore keeps one color scheme per origin in a preference store.
type ThemeStore struct {
	store contract.KVStore
}

// NewThemeStore wraps store. A nil store remembers nothing.
func NewThemeStore(store contract.KVStore) *ThemeStore {
	return &ThemeStore{store: store}
}

// themeKey scopes the scheme key by origin, the way browser storage is.
func themeKey(origin string) string {
	return strings.ToLower(origin) + ":" + schema.ColorSchemeKey
}

// Get returns the stored scheme for origin. When nothing is stored it
// returns the automatic scheme and false.
func (t *ThemeStore) Get(origin string) (schema.ColorScheme, bool, error) {
	if t.store == nil {
		return schema.AutoScheme, false, nil
	}
	value, version, _, err := t.store.Get(themeKey(origin))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return schema.AutoScheme, false, nil
	case err != nil:
		return schema.AutoScheme, false, fmt.Errorf("cannot read theme for %s: %w", origin, err)
	case version != themeVersion:
		return schema.AutoScheme, false, nil
	}
	scheme, err := ParseScheme(string(value))
	if err != nil {
		return schema.AutoScheme, false, nil
	}
	return scheme, true, nil
}

// Set validates and stores the scheme for origin.
func (t *ThemeStore) Set(origin, value string) (schema.ColorScheme, error) {
	scheme, err := ParseScheme(value)
	if err != nil {
		return "", err
	}
	if t.store == nil {
		return scheme, nil
	}
	if err := t.store.Set(themeKey(origin), []byte(scheme), themeVersion, time.Now().Unix()); err != nil {
		return "", fmt.Errorf("cannot save theme for %s: %w", origin, err)
	}
	return scheme, nil
}

// Clear forgets the scheme for origin.
func (t *ThemeStore) Clear(origin string) error {
	if t.store == nil {
		return nil
	}
	return t.store.Delete(themeKey(origin))
}
