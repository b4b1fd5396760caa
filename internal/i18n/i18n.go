package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator отдаёт локализованные строки по ключу вида "enroll.start".
// Таблицы переводов загружаются один раз при создании и далее только читаются,
// поэтому Translator безопасен для конкурентного использования.
type Translator struct {
	defaultLang string
	tables      map[string]map[string]any
	logger      *zap.Logger
}

// New загружает все встроенные таблицы переводов
func New(defaultLang string, logger *zap.Logger) (*Translator, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	tables := make(map[string]map[string]any, len(entries))
	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), ".json")

		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}

		var table map[string]any
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}

		tables[lang] = table
		logger.Info("Loaded translations", zap.String("language", lang))
	}

	if _, ok := tables[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %q has no locale file", defaultLang)
	}

	return &Translator{
		defaultLang: defaultLang,
		tables:      tables,
		logger:      logger,
	}, nil
}

// DefaultLang возвращает язык по умолчанию
func (t *Translator) DefaultLang() string {
	return t.defaultLang
}

// Has проверяет поддерживается ли язык
func (t *Translator) Has(lang string) bool {
	_, ok := t.tables[lang]
	return ok
}

// T возвращает перевод по ключу. Если ключ не найден, возвращает сам ключ.
// Если для языка нет таблицы, используется язык по умолчанию.
func (t *Translator) T(lang, key string) string {
	table, ok := t.tables[lang]
	if !ok {
		table = t.tables[t.defaultLang]
	}

	value := any(table)
	for _, part := range strings.Split(key, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			t.logger.Warn("Translation key not found", zap.String("key", key), zap.String("language", lang))
			return key
		}
		value, ok = m[part]
		if !ok {
			t.logger.Warn("Translation key not found", zap.String("key", key), zap.String("language", lang))
			return key
		}
	}

	text, ok := value.(string)
	if !ok {
		t.logger.Warn("Translation key is not a string", zap.String("key", key), zap.String("language", lang))
		return key
	}

	return text
}

// Tf возвращает перевод с подстановкой именованных плейсхолдеров вида {name}
func (t *Translator) Tf(lang, key string, args map[string]string) string {
	text := t.T(lang, key)
	for name, val := range args {
		text = strings.ReplaceAll(text, "{"+name+"}", val)
	}
	return text
}
