package outtmpl_test

import (
	"strings"
	"testing"

	"chapsplit/internal/chapters"
	"chapsplit/internal/outtmpl"
)

var (
	source = outtmpl.Source{
		Path:  "/media/books/The Book.m4b",
		Count: 12,
		Tags:  map[string]string{"Artist": "Jane Doe", "album": "The Book"},
	}
	chapter = chapters.Chapter{Index: 3, ID: 2, Title: "Part 1: Arrival", Start: 61.5, End: 3723.25}
)

func TestNameDefaultTemplate(t *testing.T) {
	namer, err := outtmpl.New("", false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	got, err := namer.Name(source, chapter)
	if err != nil {
		t.Fatalf("Name returned error: %v", err)
	}
	if got != "03 - Part 1- Arrival.m4b" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestNameAllPlaceholders(t *testing.T) {
	namer, err := outtmpl.New("{basename} [{index}of{count}] {id} {start}-{end} {tag_artist}{tag_missing}.{ext}", false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	got, err := namer.Name(source, chapter)
	if err != nil {
		t.Fatalf("Name returned error: %v", err)
	}
	if got != "The Book [3of12] 2 00-01-01-01-02-03 Jane Doe.m4b" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestNameRestricted(t *testing.T) {
	namer, err := outtmpl.New("{index:03d} {title}.{ext}", true)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ch := chapter
	ch.Title = "Crème brûlée"
	got, err := namer.Name(source, ch)
	if err != nil {
		t.Fatalf("Name returned error: %v", err)
	}
	if got != "003_Creme_brulee.m4b" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestChapterTagsFillGaps(t *testing.T) {
	namer, err := outtmpl.New("{tag_artist} - {tag_performer}", false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ch := chapter
	ch.Tags = map[string]string{"artist": "ignored", "performer": "Narrator"}
	got, err := namer.Name(source, ch)
	if err != nil {
		t.Fatalf("Name returned error: %v", err)
	}
	if got != "Jane Doe - Narrator" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestNewRejectsBadTemplates(t *testing.T) {
	for _, format := range []string{"{index", "{chapter}.mp3", "{title:q}"} {
		if _, err := outtmpl.New(format, false); err == nil {
			t.Fatalf("New(%q): expected error", format)
		}
	}
}

func TestNameRejectsEmptyResult(t *testing.T) {
	namer, err := outtmpl.New("{tag_none}", false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := namer.Name(source, chapter); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty-name error, got %v", err)
	}
}
