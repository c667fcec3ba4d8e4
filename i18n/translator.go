// Package i18n renders short, localized labels for issue codes.
package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key"); placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

var dictionaries = map[string]map[string]string{
	"en": {
		"format_error":       "malformed document",
		"invalid_type":       "invalid type",
		"unknown_key":        "unknown key {key}",
		"invalid_format":     "cannot parse value",
		"overflow":           "value out of range",
		"unsupported_shape":  "unsupported target type",
		"required":           "required field {field} missing",
		"duplicate_key":      "duplicate key {key}",
		"max_depth":          "nesting too deep",
		"truncated":          "input too large",
		"excessive_aliasing": "too many alias expansions",
		"builder_error":      "internal decoding error",
	},
	"ja": {
		"format_error":       "文書の形式が不正です",
		"invalid_type":       "型が不正です",
		"unknown_key":        "未知のキーです {key}",
		"invalid_format":     "値を解析できません",
		"overflow":           "値が範囲外です",
		"unsupported_shape":  "対応していない型です",
		"required":           "必須フィールドが不足しています {field}",
		"duplicate_key":      "キーが重複しています {key}",
		"max_depth":          "ネストが深すぎます",
		"truncated":          "入力が大きすぎます",
		"excessive_aliasing": "エイリアスの展開が多すぎます",
		"builder_error":      "内部デコードエラー",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return expand(msg, data)
}

// expand substitutes {name} placeholders; unknown ones are dropped.
func expand(msg string, data map[string]string) string {
	if !strings.Contains(msg, "{") {
		return msg
	}
	var b strings.Builder
	for {
		i := strings.IndexByte(msg, '{')
		if i < 0 {
			b.WriteString(msg)
			break
		}
		j := strings.IndexByte(msg[i:], '}')
		if j < 0 {
			b.WriteString(msg)
			break
		}
		b.WriteString(msg[:i])
		b.WriteString(data[msg[i+1:i+j]])
		msg = msg[i+j+1:]
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
