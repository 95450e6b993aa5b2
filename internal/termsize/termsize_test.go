package termsize_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"chapsplit/internal/termsize"
)

func TestWidthOfNonTerminalFallsBackToColumns(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer file.Close()

	t.Setenv("COLUMNS", "132")
	width, err := termsize.WidthOf(file)()
	if err != nil || width != 132 {
		t.Fatalf("expected 132 from COLUMNS, got %d (%v)", width, err)
	}

	t.Setenv("COLUMNS", "nonsense")
	if width, _ := termsize.WidthOf(file)(); width != termsize.DefaultColumns {
		t.Fatalf("expected default width, got %d", width)
	}

	if _, err := termsize.Columns(file); err == nil {
		t.Fatal("expected error for regular file")
	}
	if termsize.IsTerminal(file) {
		t.Fatal("regular file reported as terminal")
	}
}

func TestIsTerminalRejectsBuffers(t *testing.T) {
	if termsize.IsTerminal(&bytes.Buffer{}) {
		t.Fatal("buffer reported as terminal")
	}
}

func TestWriterLifecycle(t *testing.T) {
	var buf bytes.Buffer
	w := termsize.NewWriter(&buf)

	w.Clear()
	if buf.Len() != 0 {
		t.Fatalf("clear without a live line wrote %q", buf.String())
	}
	if err := w.Update("Chapter 1/3 [--]"); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !w.Live() {
		t.Fatal("expected live line after Update")
	}
	w.Clear()
	if err := w.Update("Chapter 2/3 [#-]"); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if err := w.Finish("Chapter 3/3 [##]"); err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	if w.Live() {
		t.Fatal("expected no live line after Finish")
	}
	want := "Chapter 1/3 [--]\r\r\x1b[KChapter 2/3 [#-]\rChapter 3/3 [##]\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
