// Package outtmpl names chapter output files from a user template such as
// "{index:02d} - {title}.{ext}".
//
// Templates use the same placeholder syntax as the status line. Available
// placeholders:
//
//	title     chapter title
//	index     1-based chapter number
//	id        container chapter id
//	count     number of chapters in the input
//	start     chapter start as HH:MM:SS
//	end       chapter end as HH:MM:SS
//	ext       input extension without the dot
//	basename  input file name without directory or extension
//	tag_<key> container tag, key lowercased (e.g. tag_artist)
//
// Unknown tag_ placeholders render empty; any other unknown placeholder is
// an error.
package outtmpl

import (
	"fmt"
	"path/filepath"
	"strings"

	"chapsplit/internal/chapters"
	"chapsplit/internal/statusline"
	"chapsplit/internal/textutil"
)

// DefaultTemplate is used when none is configured.
const DefaultTemplate = "{index:02d} - {title}.{ext}"

const tagPrefix = "tag_"

var knownKeys = map[string]bool{
	"title": true, "index": true, "id": true, "count": true,
	"start": true, "end": true, "ext": true, "basename": true,
}

// Source describes the input file chapters are cut from.
type Source struct {
	Path  string
	Count int
	Tags  map[string]string
}

// Namer renders output file names.
type Namer struct {
	format   string
	restrict bool
	keys     []string
}

// New parses format. restrict folds names to portable ASCII.
func New(format string, restrict bool) (*Namer, error) {
	if strings.TrimSpace(format) == "" {
		format = DefaultTemplate
	}
	tmpl := statusline.NewTemplate()
	if err := tmpl.SetTemplate(format); err != nil {
		return nil, fmt.Errorf("output template: %w", err)
	}
	keys := tmpl.Placeholders()
	for _, key := range keys {
		if !knownKeys[key] && !strings.HasPrefix(key, tagPrefix) {
			return nil, fmt.Errorf("output template: unknown placeholder {%s}", key)
		}
	}
	return &Namer{format: format, restrict: restrict, keys: keys}, nil
}

// Format returns the template text.
func (n *Namer) Format() string { return n.format }

// Name returns the sanitized file name for ch.
func (n *Namer) Name(src Source, ch chapters.Chapter) (string, error) {
	tmpl := statusline.NewTemplate()
	if err := tmpl.SetTemplate(n.format); err != nil {
		return "", fmt.Errorf("output template: %w", err)
	}
	for key, value := range bindings(src, ch) {
		tmpl.Bind(key, value)
	}
	for _, key := range n.keys {
		if _, ok := tmpl.Value(key); !ok && strings.HasPrefix(key, tagPrefix) {
			tmpl.Bind(key, "")
		}
	}
	raw, err := tmpl.Render()
	if err != nil {
		return "", fmt.Errorf("name chapter %d: %w", ch.Index, err)
	}
	name := textutil.SanitizeFileName(raw)
	if n.restrict {
		name = textutil.RestrictFileName(name)
	}
	if name == "" {
		return "", fmt.Errorf("name chapter %d: template %q produced an empty file name", ch.Index, n.format)
	}
	return name, nil
}

func bindings(src Source, ch chapters.Chapter) map[string]any {
	base := filepath.Base(src.Path)
	ext := filepath.Ext(base)
	values := map[string]any{
		"title":    ch.Title,
		"index":    ch.Index,
		"id":       ch.ID,
		"count":    src.Count,
		"start":    chapters.FormatClock(ch.Start),
		"end":      chapters.FormatClock(ch.End),
		"ext":      strings.TrimPrefix(ext, "."),
		"basename": strings.TrimSuffix(base, ext),
	}
	for key, value := range src.Tags {
		values[tagPrefix+textutil.SanitizeToken(key)] = value
	}
	for key, value := range ch.Tags {
		token := tagPrefix + textutil.SanitizeToken(key)
		if _, ok := values[token]; !ok {
			values[token] = value
		}
	}
	return values
}
