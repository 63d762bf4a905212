package pattern

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dcimsort/internal/config"
	"dcimsort/internal/media"
)

// MakeModel joins the camera make and model, e.g. "canon_eos-5d".
type MakeModel struct {
	parts         []string
	separator     string
	defaultValue  string
	fallback      string
	lowercase     bool
	replaceSpaces bool
}

func newMakeModel(cfg config.Segment) MakeModel {
	m := MakeModel{
		parts:         cfg.Parts,
		separator:     cfg.Separator,
		defaultValue:  cfg.Default,
		fallback:      cfg.Fallback,
		lowercase:     cfg.Lowercase,
		replaceSpaces: cfg.ReplaceSpaces,
	}
	if len(m.parts) == 0 {
		m.parts = []string{"make", "model"}
	}
	if m.separator == "" {
		m.separator = "_"
	}
	if m.defaultValue == "" {
		m.defaultValue = "unknown"
	}
	return m
}

func (m MakeModel) Translate(file media.File) (string, bool) {
	meta := file.Metadata()
	maker, makerSet := m.normalize(meta.Make)
	model, modelSet := m.normalize(meta.Model)
	if !makerSet && !modelSet && m.fallback != "" {
		return m.fallback, true
	}
	values := make([]string, 0, len(m.parts))
	for _, part := range m.parts {
		switch part {
		case "make":
			values = append(values, maker)
		case "model":
			values = append(values, model)
		}
	}
	return strings.Join(values, m.separator), true
}

func (m MakeModel) normalize(value string) (string, bool) {
	value = sanitize(value)
	if value == "" {
		return m.defaultValue, false
	}
	if m.lowercase {
		// cases.Caser is not safe for concurrent use.
		value = cases.Lower(language.Und).String(value)
	}
	if m.replaceSpaces {
		value = strings.Join(strings.Fields(value), "-")
	}
	return value, true
}

func (m MakeModel) Optional() bool { return false }

func (m MakeModel) String() string {
	return fmt.Sprintf("make_model(%s, sep=%q, default=%q, fallback=%q)",
		strings.Join(m.parts, "+"), m.separator, m.defaultValue, m.fallback)
}
