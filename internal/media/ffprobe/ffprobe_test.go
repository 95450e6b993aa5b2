package ffprobe

import (
	"slices"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "aac", "codec_type": "audio", "sample_rate": "44100", "channels": 2},
    {"index": 1, "codec_name": "mjpeg", "codec_type": "video"}
  ],
  "chapters": [
    {"id": 0, "time_base": "1/1000", "start": 0, "start_time": "0.000000", "end": 61500, "end_time": "61.500000", "tags": {"title": "Opening Credits"}},
    {"id": 1, "time_base": "1/1000", "start": 61500, "end": 3723250, "tags": {"TITLE": " Part One "}}
  ],
  "format": {
    "filename": "book.m4b",
    "nb_streams": 2,
    "nb_chapters": 2,
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "3723.250000",
    "size": "52428800",
    "bit_rate": "112640",
    "tags": {"artist": "Jane Doe", "Album": "The Book"}
  }
}`

func TestParseChaptersAndTags(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(result.Chapters))
	}
	first, second := result.Chapters[0], result.Chapters[1]
	if first.Title() != "Opening Credits" || second.Title() != "Part One" {
		t.Fatalf("unexpected titles %q %q", first.Title(), second.Title())
	}
	if first.EndSeconds() != 61.5 || first.DurationSeconds() != 61.5 {
		t.Fatalf("unexpected first bounds %v %v", first.EndSeconds(), first.DurationSeconds())
	}
	if second.StartSeconds() != 61.5 || second.EndSeconds() != 3723.25 {
		t.Fatalf("time base fallback failed: %v-%v", second.StartSeconds(), second.EndSeconds())
	}
	if result.Format.Tag("album") != "The Book" || result.Format.Tag("ARTIST") != "Jane Doe" {
		t.Fatalf("unexpected format tags %v", result.Format.Tags)
	}
	if string(result.RawJSON()) != sampleJSON {
		t.Fatal("expected raw payload to be retained")
	}
}

func TestResultHelpers(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.AudioStreamCount() != 1 || result.VideoStreamCount() != 1 {
		t.Fatalf("unexpected stream counts %d/%d", result.AudioStreamCount(), result.VideoStreamCount())
	}
	if result.DurationSeconds() != 3723.25 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 52428800 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 112640 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestChapterWithoutTimingIsZero(t *testing.T) {
	chapter := Chapter{TimeBase: "garbage", Start: 10, End: 5}
	if chapter.StartSeconds() != 0 || chapter.DurationSeconds() != 0 {
		t.Fatalf("expected zero timing, got %v/%v", chapter.StartSeconds(), chapter.DurationSeconds())
	}
}

func TestArgsShowChapters(t *testing.T) {
	args := Args("in.m4b")
	if !slices.Contains(args, "-show_chapters") || args[len(args)-1] != "in.m4b" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte("{")); err == nil {
		t.Fatal("expected parse error")
	}
}
