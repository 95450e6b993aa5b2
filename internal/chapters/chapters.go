// Package chapters turns probed chapter markers into an ordered, selectable
// list and formats chapter times for display and for ffmpeg seeking.
package chapters

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"chapsplit/internal/media/ffprobe"
)

// ErrNoChapters is returned when the input carries no chapter markers.
var ErrNoChapters = errors.New("input has no chapters")

// Chapter is one chapter of the input, numbered from 1 in container order.
type Chapter struct {
	Index int               `json:"index"`
	ID    int64             `json:"id"`
	Title string            `json:"title"`
	Start float64           `json:"start"`
	End   float64           `json:"end"`
	Tags  map[string]string `json:"tags,omitempty"`
}

// Duration returns the chapter length in seconds.
func (c Chapter) Duration() float64 {
	if c.End <= c.Start {
		return 0
	}
	return c.End - c.Start
}

// FromProbe converts ffprobe chapters. Chapters without a title are named
// "Chapter N". A last chapter with no usable end runs to the end of the
// container.
func FromProbe(result ffprobe.Result) ([]Chapter, error) {
	if len(result.Chapters) == 0 {
		return nil, ErrNoChapters
	}
	out := make([]Chapter, 0, len(result.Chapters))
	for i, ch := range result.Chapters {
		title := ch.Title()
		if title == "" {
			title = "Chapter " + strconv.Itoa(i+1)
		}
		out = append(out, Chapter{
			Index: i + 1,
			ID:    ch.ID,
			Title: title,
			Start: ch.StartSeconds(),
			End:   ch.EndSeconds(),
			Tags:  ch.Tags,
		})
	}
	if last := &out[len(out)-1]; last.End <= last.Start {
		if total := result.DurationSeconds(); total > last.Start {
			last.End = total
		}
	}
	return out, nil
}

// FormatClock renders seconds as HH:MM:SS, flooring fractions.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm, the form passed to
// ffmpeg's -ss and -to.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", total/3600, (total/60)%60, total%60, ms%1000)
}

// Range is an inclusive span of 1-based chapter indices.
type Range struct {
	First int
	Last  int
}

// Selection is a set of chapter indices kept as sorted, disjoint ranges so
// a wide span costs no more than a single index.
type Selection []Range

// Only selects the given indices.
func Only(indices ...int) Selection {
	sel := make(Selection, 0, len(indices))
	for _, idx := range indices {
		sel = append(sel, Range{First: idx, Last: idx})
	}
	return sel.normalize()
}

// Contains reports whether idx is selected.
func (s Selection) Contains(idx int) bool {
	_, found := slices.BinarySearchFunc(s, idx, func(r Range, target int) int {
		switch {
		case r.Last < target:
			return -1
		case r.First > target:
			return 1
		}
		return 0
	})
	return found
}

// Max returns the highest selected index, or 0 for an empty selection.
func (s Selection) Max() int {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Last
}

func (s Selection) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		if r.First == r.Last {
			parts[i] = strconv.Itoa(r.First)
		} else {
			parts[i] = strconv.Itoa(r.First) + "-" + strconv.Itoa(r.Last)
		}
	}
	return strings.Join(parts, ",")
}

func (s Selection) normalize() Selection {
	if len(s) == 0 {
		return nil
	}
	slices.SortFunc(s, func(a, b Range) int { return a.First - b.First })
	out := s[:1]
	for _, r := range s[1:] {
		last := &out[len(out)-1]
		if r.First <= last.Last+1 {
			last.Last = max(last.Last, r.Last)
			continue
		}
		out = append(out, r)
	}
	return out
}

// ParseSelection parses a comma separated list of 1-based chapter indices
// and inclusive ranges, e.g. "1,3,5-7". Overlapping and adjacent items are
// merged. An empty string selects nothing and returns nil.
func ParseSelection(value string) (Selection, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	var out Selection
	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("chapter selection %q: empty item", value)
		}
		lowText, highText, isRange := strings.Cut(part, "-")
		low, err := parseIndex(lowText)
		if err != nil {
			return nil, fmt.Errorf("chapter selection %q: %w", value, err)
		}
		high := low
		if isRange {
			if high, err = parseIndex(highText); err != nil {
				return nil, fmt.Errorf("chapter selection %q: %w", value, err)
			}
			if high < low {
				return nil, fmt.Errorf("chapter selection %q: range %d-%d is reversed", value, low, high)
			}
		}
		out = append(out, Range{First: low, Last: high})
	}
	return out.normalize(), nil
}

func parseIndex(text string) (int, error) {
	text = strings.TrimSpace(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid chapter number %q", text)
	}
	if n < 1 {
		return 0, fmt.Errorf("chapter numbers start at 1 (got %d)", n)
	}
	return n, nil
}

// Select keeps the chapters whose Index is in selection, in index order. A
// nil or empty selection keeps every chapter. Indices beyond the chapter
// list are an error.
func Select(all []Chapter, selection Selection) ([]Chapter, error) {
	if len(selection) == 0 {
		return slices.Clone(all), nil
	}
	if highest := selection.Max(); highest > len(all) {
		missing := highest
		for _, r := range selection {
			if r.Last > len(all) {
				missing = max(r.First, len(all)+1)
				break
			}
		}
		return nil, fmt.Errorf("chapter %d does not exist (input has %d chapters)", missing, len(all))
	}
	out := make([]Chapter, 0, len(all))
	for _, ch := range all {
		if selection.Contains(ch.Index) {
			out = append(out, ch)
		}
	}
	return out, nil
}

// TotalDuration sums the durations of chapters.
func TotalDuration(list []Chapter) float64 {
	var total float64
	for _, ch := range list {
		total += ch.Duration()
	}
	return total
}
