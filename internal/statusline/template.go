package statusline

import (
	"fmt"
	"strconv"
	"strings"
)

// Template is a label produced by formatting a template against bindings that
// can be rebound at any time. Placeholders use brace syntax: {name}, {0} or
// {} (auto-numbered), with an optional format spec after a colon such as
// {chap:3d}, {value:>5} or {ratio:.1f}. Literal braces are written {{ and }}.
//
// Bindings are resolved only when the template is rendered, so producers can
// update values without formatting on every change.
type Template struct {
	base
	align     Align
	format    string
	segments  []segment
	hasFormat bool
	bindings  bindings

	// resolved holds the text prepared by the current layout pass until
	// Render consumes it.
	resolved string
	prepared bool
}

// NewTemplate constructs an Auto-sized template cell with no template set.
func NewTemplate(opts ...CellOption) *Template {
	settings := buildSettings(Auto, opts)
	return &Template{
		base:  base{name: settings.name, sizing: settings.sizing, width: settings.width},
		align: settings.align,
	}
}

// SetTemplate parses and stores format. Bindings need not exist yet. A
// malformed template is rejected and the previous template stays in place.
func (t *Template) SetTemplate(format string) error {
	segments, err := parseTemplate(format)
	if err != nil {
		return configErr("set template", t.name, fmt.Errorf("%w: %v", ErrBadTemplate, err))
	}
	t.format = format
	t.segments = segments
	t.hasFormat = true
	t.prepared = false
	return nil
}

// Format returns the stored template text.
func (t *Template) Format() string { return t.format }

// Bind stores or overwrites a named binding.
func (t *Template) Bind(name string, value any) {
	t.bindings.set(name, value)
	t.prepared = false
}

// BindPositional stores or overwrites the binding for {index}.
func (t *Template) BindPositional(index int, value any) {
	t.bindings.set(strconv.Itoa(index), value)
	t.prepared = false
}

// Placeholders returns the keys the template refers to, in template order,
// without duplicates. Auto-numbered {} placeholders appear as "0", "1", ...
func (t *Template) Placeholders() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, seg := range t.segments {
		if seg.placeholder && !seen[seg.key] {
			seen[seg.key] = true
			keys = append(keys, seg.key)
		}
	}
	return keys
}

// Bound returns the bound placeholder keys in first-bind order.
func (t *Template) Bound() []string {
	return append([]string(nil), t.bindings.keys...)
}

// Value returns the binding for key.
func (t *Template) Value(key string) (any, bool) {
	return t.bindings.get(key)
}

// Resolve formats the template against the current bindings without padding.
// Auto cells adopt the resolved length as their width.
func (t *Template) Resolve() (string, error) {
	if !t.hasFormat {
		return "", configErr("render template", t.name, ErrNoTemplate)
	}
	var sb strings.Builder
	for _, seg := range t.segments {
		if !seg.placeholder {
			sb.WriteString(seg.literal)
			continue
		}
		value, ok := t.bindings.get(seg.key)
		if !ok {
			return "", configErr("render template", t.name, fmt.Errorf("%w: {%s}", ErrMissingBinding, seg.key))
		}
		formatted, err := formatValue(value, seg.spec)
		if err != nil {
			return "", configErr("render template", t.name, fmt.Errorf("%w: {%s}: %v", ErrBadTemplate, seg.key, err))
		}
		sb.WriteString(formatted)
	}
	out := sb.String()
	if t.sizing == Auto {
		t.width = runeLen(out)
	}
	return out, nil
}

// Width returns the resolved width. Outside a layout pass Auto cells
// re-resolve first so a rebind is reflected without an explicit resize; if
// resolution fails the last good width is returned and Render reports the
// error.
func (t *Template) Width() int {
	if t.sizing != Auto || t.prepared {
		return t.width
	}
	if s, err := t.Resolve(); err == nil {
		return runeLen(s)
	}
	return t.width
}

func (t *Template) SetWidth(width int) error { return t.setWidth(width) }

func (t *Template) prepare() (int, error) {
	s, err := t.Resolve()
	if err != nil {
		t.prepared = false
		return 0, err
	}
	t.resolved, t.prepared = s, true
	return t.width, nil
}

func (t *Template) release() {
	t.resolved, t.prepared = "", false
}

func (t *Template) Render() (string, error) {
	s := t.resolved
	if !t.prepared {
		var err error
		if s, err = t.Resolve(); err != nil {
			return "", err
		}
	}
	t.release()
	return fit(s, t.width, t.align), nil
}

type bindings struct {
	keys   []string
	values map[string]any
}

func (b *bindings) set(key string, value any) {
	if b.values == nil {
		b.values = make(map[string]any)
	}
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
}

func (b *bindings) get(key string) (any, bool) {
	value, ok := b.values[key]
	return value, ok
}

type segment struct {
	literal     string
	placeholder bool
	key         string
	spec        formatSpec
}

func parseTemplate(format string) ([]segment, error) {
	var (
		segments []segment
		literal  strings.Builder
		auto     int
	)
	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{literal: literal.String()})
			literal.Reset()
		}
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch c {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(format[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed placeholder at offset %d", i)
			}
			body := format[i+1 : i+1+end]
			if strings.ContainsRune(body, '{') {
				return nil, fmt.Errorf("nested placeholder at offset %d", i)
			}
			key, specText, _ := strings.Cut(body, ":")
			key = strings.TrimSpace(key)
			if key == "" {
				key = strconv.Itoa(auto)
				auto++
			}
			spec, err := parseSpec(specText)
			if err != nil {
				return nil, fmt.Errorf("placeholder {%s}: %w", key, err)
			}
			flush()
			segments = append(segments, segment{placeholder: true, key: key, spec: spec})
			i += end + 1
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("unmatched '}' at offset %d", i)
		default:
			literal.WriteByte(c)
		}
	}
	flush()
	return segments, nil
}
