package testsupport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path, including parent directories, filled with size
// bytes. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ProbeChapter describes a chapter for ProbeJSON.
type ProbeChapter struct {
	Title string
	Start float64
	End   float64
}

// ProbeJSON renders an ffprobe -show_streams -show_chapters -show_format
// document for chapters, with the given container tags. The container
// holds one AAC audio stream and an MJPEG cover at 64 kbit/s.
func ProbeJSON(t testing.TB, tags map[string]string, chapters ...ProbeChapter) []byte {
	t.Helper()

	type chapterDoc struct {
		ID        int               `json:"id"`
		TimeBase  string            `json:"time_base"`
		Start     int64             `json:"start"`
		End       int64             `json:"end"`
		StartTime string            `json:"start_time"`
		EndTime   string            `json:"end_time"`
		Tags      map[string]string `json:"tags,omitempty"`
	}
	type streamDoc struct {
		Index     int    `json:"index"`
		CodecName string `json:"codec_name"`
		CodecType string `json:"codec_type"`
	}
	doc := struct {
		Streams  []streamDoc  `json:"streams"`
		Chapters []chapterDoc `json:"chapters"`
		Format   struct {
			Filename   string            `json:"filename"`
			NBStreams  int               `json:"nb_streams"`
			NBChapters int               `json:"nb_chapters"`
			Duration   string            `json:"duration"`
			BitRate    string            `json:"bit_rate"`
			Tags       map[string]string `json:"tags,omitempty"`
		} `json:"format"`
	}{
		Streams: []streamDoc{
			{Index: 0, CodecName: "aac", CodecType: "audio"},
			{Index: 1, CodecName: "mjpeg", CodecType: "video"},
		},
	}

	var end float64
	for i, ch := range chapters {
		entry := chapterDoc{
			ID:        i,
			TimeBase:  "1/1000",
			Start:     int64(ch.Start * 1000),
			End:       int64(ch.End * 1000),
			StartTime: fmt.Sprintf("%.6f", ch.Start),
			EndTime:   fmt.Sprintf("%.6f", ch.End),
		}
		if ch.Title != "" {
			entry.Tags = map[string]string{"title": ch.Title}
		}
		doc.Chapters = append(doc.Chapters, entry)
		end = max(end, ch.End)
	}
	doc.Format.NBStreams = len(doc.Streams)
	doc.Format.NBChapters = len(chapters)
	doc.Format.Duration = fmt.Sprintf("%.6f", end)
	doc.Format.BitRate = "64000"
	doc.Format.Tags = tags

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal probe json: %v", err)
	}
	return data
}
