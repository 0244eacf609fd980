// Package i18n holds the user-facing message catalog in English and Arabic,
// backed by go-playground/universal-translator.
package i18n

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
)

// Supported languages. English is the fallback for anything else.
const (
	LangEN = "en"
	LangAR = "ar"
)

// Translator renders a catalog message. Params replace {0}, {1}, ...
type Translator interface {
	T(lang, key string, params ...string) string
}

// Catalog implements Translator.
type Catalog struct {
	translators map[string]ut.Translator
	fallback    ut.Translator
}

// New loads the built-in messages.
func New() (*Catalog, error) {
	return NewWithMessages(messages)
}

// NewWithMessages builds a catalog from lang -> key -> text.
func NewWithMessages(msgs map[string]map[string]string) (*Catalog, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, ar.New())

	c := &Catalog{translators: make(map[string]ut.Translator, len(msgs))}
	for lang, entries := range msgs {
		trans, ok := uni.GetTranslator(lang)
		if !ok {
			return nil, fmt.Errorf("i18n: unsupported language %q", lang)
		}
		for key, text := range entries {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("i18n: add %s/%s: %w", lang, key, err)
			}
		}
		c.translators[lang] = trans
	}

	fallback, ok := c.translators[LangEN]
	if !ok {
		return nil, fmt.Errorf("i18n: missing %q messages", LangEN)
	}
	c.fallback = fallback

	return c, nil
}

// Normalize maps lang to a supported language, defaulting to English.
func Normalize(lang string) string {
	if lang == LangAR {
		return LangAR
	}
	return LangEN
}

// T returns the message for key in lang. A key missing from lang falls back
// to English; a key missing everywhere is returned verbatim.
func (c *Catalog) T(lang, key string, params ...string) string {
	trans, ok := c.translators[lang]
	if !ok {
		trans = c.fallback
	}

	msg, err := trans.T(key, params...)
	if err == nil {
		return msg
	}
	if trans != c.fallback {
		if msg, err = c.fallback.T(key, params...); err == nil {
			return msg
		}
	}

	slog.Warn("i18n: message not found", "lang", lang, "key", key, "error", err)
	return key
}
