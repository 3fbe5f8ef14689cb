package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type Lang map[string]string
type LangCode string // en, pl or de. New languages need a locales/<code>.json file

const (
	English LangCode = "en"
	Polish  LangCode = "pl"
	German  LangCode = "de"
)

var Languages = []LangCode{Polish, German, English}

var (
	locales          = map[LangCode]Lang{}
	localesMu        sync.RWMutex
	UsersLanguages   = make(map[int64]LangCode) // chat_id -> LangCode
	UsersLanguagesMu sync.RWMutex
)

func (l LangCode) IsValid() bool {
	switch l {
	case English, Polish, German:
		return true
	default:
		return false
	}
}

func GetLang(chatId int64) LangCode {
	UsersLanguagesMu.RLock()
	defer UsersLanguagesMu.RUnlock()
	if lang, ok := UsersLanguages[chatId]; ok {
		return lang
	}
	return Polish
}

func SetUserLang(chatId int64, lang LangCode) {
	UsersLanguagesMu.Lock()
	defer UsersLanguagesMu.Unlock()
	UsersLanguages[chatId] = lang
}

func LoadLocales() error {
	return LoadLocalesFrom("locales")
}

func LoadLocalesFrom(dir string) error {
	loaded := make(map[LangCode]Lang, len(Languages))
	for _, lang := range Languages {
		data, err := os.ReadFile(filepath.Join(dir, string(lang)+".json"))
		if err != nil {
			return err
		}
		var l Lang
		if err := json.Unmarshal(data, &l); err != nil {
			return fmt.Errorf("locale %s: %w", lang, err)
		}
		loaded[lang] = l
	}

	localesMu.Lock()
	defer localesMu.Unlock()
	locales = loaded
	return nil
}

// Translate literally uses Sprintf for its strings. In locale files just use regular Go formatting, same as with fmt.Printf or fmt.Sprintf
func Translate(userLang LangCode, key string, args ...any) string {
	localesMu.RLock()
	str, ok := locales[userLang][key]
	if !ok {
		str, ok = locales[English][key]
	}
	localesMu.RUnlock()

	if !ok {
		return key
	}

	return fmt.Sprintf(str, args...)
}
