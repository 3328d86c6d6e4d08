package i18n

import "fmt"

const fallbackLanguage = "en"

// Translator renders user-facing messages by key and language code.
// Unknown languages fall back to the configured default, then to English;
// unknown keys render as the key itself so a missing entry is visible
// instead of silent.
type Translator struct {
	defaultLanguage string
}

// NewTranslator creates a Translator. An unsupported default language falls
// back to English.
func NewTranslator(defaultLanguage string) *Translator {
	if _, ok := translations[defaultLanguage]; !ok {
		defaultLanguage = fallbackLanguage
	}
	return &Translator{defaultLanguage: defaultLanguage}
}

// T renders the message for key in the given language, applying fmt verbs
// when args are present.
func (t *Translator) T(key, language string, args ...any) string {
	table, ok := translations[language]
	if !ok {
		table = translations[t.defaultLanguage]
	}
	msg, ok := table[key]
	if !ok {
		// Per-key fallback for partially translated languages.
		msg, ok = translations[fallbackLanguage][key]
		if !ok {
			return key
		}
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// SystemPrompt returns the model instruction for the given language.
func (t *Translator) SystemPrompt(language string) string {
	if prompt, ok := systemPrompts[language]; ok {
		return prompt
	}
	if prompt, ok := systemPrompts[t.defaultLanguage]; ok {
		return prompt
	}
	return systemPrompts[fallbackLanguage]
}

// Languages lists the supported language codes.
func Languages() []string {
	codes := make([]string, 0, len(translations))
	for code := range translations {
		codes = append(codes, code)
	}
	return codes
}
