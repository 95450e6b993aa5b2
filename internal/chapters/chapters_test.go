package chapters_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"chapsplit/internal/chapters"
	"chapsplit/internal/media/ffprobe"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00"},
		{59.99, "00:00:59"},
		{61.5, "00:01:01"},
		{3723.25, "01:02:03"},
		{-4, "00:00:00"},
		{100 * 3600, "100:00:00"},
	}
	for _, tc := range cases {
		if got := chapters.FormatClock(tc.in); got != tc.want {
			t.Fatalf("FormatClock(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00.000"},
		{61.5, "00:01:01.500"},
		{3723.2504, "01:02:03.250"},
		{59.9996, "00:01:00.000"},
	}
	for _, tc := range cases {
		if got := chapters.FormatTimestamp(tc.in); got != tc.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseSelection(t *testing.T) {
	got, err := chapters.ParseSelection(" 5-7, 1,3 ,6")
	if err != nil {
		t.Fatalf("ParseSelection returned error: %v", err)
	}
	want := chapters.Selection{{First: 1, Last: 1}, {First: 3, Last: 3}, {First: 5, Last: 7}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.String() != "1,3,5-7" {
		t.Fatalf("unexpected String %q", got.String())
	}
	for idx, in := range map[int]bool{1: true, 2: false, 3: true, 4: false, 6: true, 7: true, 8: false} {
		if got.Contains(idx) != in {
			t.Fatalf("Contains(%d) = %v", idx, !in)
		}
	}
	if got, err := chapters.ParseSelection(""); err != nil || got != nil {
		t.Fatalf("expected empty selection, got %v (%v)", got, err)
	}
	for _, bad := range []string{"0", "a", "3-1", "1,,2", "-2", "2-"} {
		if _, err := chapters.ParseSelection(bad); err == nil {
			t.Fatalf("ParseSelection(%q): expected error", bad)
		}
	}
}

func TestParseSelectionKeepsWideRangesCompact(t *testing.T) {
	got, err := chapters.ParseSelection("2-50000000,1,3")
	if err != nil {
		t.Fatalf("ParseSelection returned error: %v", err)
	}
	if want := (chapters.Selection{{First: 1, Last: 50000000}}); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.Max() != 50000000 {
		t.Fatalf("unexpected Max %d", got.Max())
	}

	_, err = chapters.Select(sampleChapters(), got)
	if err == nil || !strings.Contains(err.Error(), "chapter 4 does not exist (input has 3 chapters)") {
		t.Fatalf("expected out-of-range error, got %v", err)
	}

	beyond, err := chapters.ParseSelection("2,7-9")
	if err != nil {
		t.Fatalf("ParseSelection returned error: %v", err)
	}
	if _, err := chapters.Select(sampleChapters(), beyond); err == nil || !strings.Contains(err.Error(), "chapter 7 does not exist") {
		t.Fatalf("expected chapter 7 to be reported, got %v", err)
	}
}

func sampleChapters() []chapters.Chapter {
	return []chapters.Chapter{
		{Index: 1, Title: "One", Start: 0, End: 10},
		{Index: 2, Title: "Two", Start: 10, End: 25},
		{Index: 3, Title: "Three", Start: 25, End: 30},
	}
}

func TestSelect(t *testing.T) {
	all := sampleChapters()
	picked, err := chapters.Select(all, chapters.Only(3, 1))
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(picked) != 2 || picked[0].Title != "One" || picked[1].Title != "Three" {
		t.Fatalf("unexpected selection %+v", picked)
	}
	if everything, _ := chapters.Select(all, nil); len(everything) != 3 {
		t.Fatalf("expected all chapters, got %d", len(everything))
	}
	if _, err := chapters.Select(all, chapters.Only(4)); err == nil {
		t.Fatal("expected error for unknown chapter")
	}
	if chapters.TotalDuration(picked) != 15 {
		t.Fatalf("unexpected total %v", chapters.TotalDuration(picked))
	}
}

func TestFromProbeRunsOpenLastChapterToContainerEnd(t *testing.T) {
	result := ffprobe.Result{
		Chapters: []ffprobe.Chapter{
			{StartTime: "0", EndTime: "30"},
			{StartTime: "30", EndTime: "30"},
		},
		Format: ffprobe.Format{Duration: "95.5"},
	}
	list, err := chapters.FromProbe(result)
	if err != nil {
		t.Fatalf("FromProbe returned error: %v", err)
	}
	if list[1].End != 95.5 || list[1].Duration() != 65.5 {
		t.Fatalf("expected last chapter to end with the container, got %+v", list[1])
	}
	if list[0].End != 30 {
		t.Fatalf("first chapter changed: %+v", list[0])
	}
}

func TestFromProbe(t *testing.T) {
	result := ffprobe.Result{Chapters: []ffprobe.Chapter{
		{ID: 7, StartTime: "0", EndTime: "12.5", Tags: map[string]string{"title": "Intro"}},
		{ID: 9, StartTime: "12.5", EndTime: "20"},
	}}
	list, err := chapters.FromProbe(result)
	if err != nil {
		t.Fatalf("FromProbe returned error: %v", err)
	}
	if list[0].Index != 1 || list[0].ID != 7 || list[0].Title != "Intro" {
		t.Fatalf("unexpected first chapter %+v", list[0])
	}
	if list[1].Title != "Chapter 2" || list[1].Duration() != 7.5 {
		t.Fatalf("unexpected second chapter %+v", list[1])
	}
	if list[1].End != 20 {
		t.Fatalf("container duration must not override a real end, got %v", list[1].End)
	}
	if _, err := chapters.FromProbe(ffprobe.Result{}); !errors.Is(err, chapters.ErrNoChapters) {
		t.Fatalf("expected ErrNoChapters, got %v", err)
	}
}
