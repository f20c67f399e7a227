// Package i18n resolves user-facing strings from the embedded catalogs.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used for keys missing from other catalogs.
const DefaultLocale = "en"

// ErrUnknownLocale is returned for locales without a catalog.
var ErrUnknownLocale = errors.New("unknown locale")

//go:embed locales/*.yaml
var catalogs embed.FS

// Messages is a resolved catalog for one locale.
type Messages struct {
	locale string
	m      map[string]string
}

// Locales lists the available catalogs.
func Locales() []string {
	entries, err := catalogs.ReadDir("locales")
	if err != nil {
		return []string{DefaultLocale}
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(out)
	return out
}

// Load resolves the catalog for locale, filling gaps from DefaultLocale.
func Load(locale string) (Messages, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	base, err := readCatalog(DefaultLocale)
	if err != nil {
		return Messages{}, err
	}
	if locale == DefaultLocale {
		return Messages{locale: locale, m: base}, nil
	}

	m, err := readCatalog(locale)
	if err != nil {
		return Messages{}, err
	}
	for k, v := range base {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return Messages{locale: locale, m: m}, nil
}

// MustLoad is Load for catalogs known to exist.
func MustLoad(locale string) Messages {
	msgs, err := Load(locale)
	if err != nil {
		panic(err)
	}
	return msgs
}

func readCatalog(locale string) (map[string]string, error) {
	data, err := catalogs.ReadFile("locales/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse %s catalog: %w", locale, err)
	}

	flat := make(map[string]string)
	flatten("", tree, flat)
	return flat, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Locale returns the catalog's locale.
func (m Messages) Locale() string {
	return m.locale
}

// T returns the string for key, formatted with args when given. Missing keys
// resolve to the key itself.
func (m Messages) T(key string, args ...any) string {
	s, ok := m.m[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}

// Has reports whether key resolves.
func (m Messages) Has(key string) bool {
	_, ok := m.m[key]
	return ok
}

// StepMessages holds the resolved strings one wizard step renders.
type StepMessages struct {
	SubTitle string
	Next     string
	Back     string
	Finish   string
	// Labels is keyed by the last segment of each label key.
	Labels map[string]string
}

// Label returns the label for field, or field itself when unresolved.
func (s StepMessages) Label(field string) string {
	if l, ok := s.Labels[field]; ok {
		return l
	}
	return field
}

// Step resolves a step's subtitle, button captions and field labels.
func (m Messages) Step(subTitleKey string, labelKeys ...string) StepMessages {
	labels := make(map[string]string, len(labelKeys))
	for _, k := range labelKeys {
		field := k[strings.LastIndex(k, ".")+1:]
		labels[field] = m.T(k)
	}
	return StepMessages{
		SubTitle: m.T(subTitleKey),
		Next:     m.T("base.next"),
		Back:     m.T("base.back"),
		Finish:   m.T("base.finish"),
		Labels:   labels,
	}
}
