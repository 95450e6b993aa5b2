package ffmpeg

import (
	"math"
	"strconv"
	"strings"
)

// Progress is one snapshot of a running cut.
type Progress struct {
	// Seconds of output written so far.
	Seconds float64
	// Fraction of the job completed, within [0,1].
	Fraction float64
	Speed    string
	Done     bool
}

// progressParser accumulates key=value lines from ffmpeg -progress output.
// A block ends with a progress=continue or progress=end line, at which point
// one Progress is emitted.
type progressParser struct {
	duration float64
	seconds  float64
	speed    string
	done     bool
}

func newProgressParser(duration float64) *progressParser {
	return &progressParser{duration: duration}
}

func (p *progressParser) Feed(line string) (Progress, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return Progress{}, false
	}
	value = strings.TrimSpace(value)
	switch key {
	case "out_time_us", "out_time_ms":
		// out_time_ms is microseconds too.
		if us, err := strconv.ParseInt(value, 10, 64); err == nil {
			p.seconds = math.Max(0, float64(us)/1e6)
		}
	case "out_time":
		if secs, ok := ParseClock(value); ok {
			p.seconds = secs
		}
	case "speed":
		p.speed = value
	case "progress":
		p.done = value == "end"
		return p.snapshot(), true
	}
	return Progress{}, false
}

func (p *progressParser) snapshot() Progress {
	fraction := 0.0
	if p.duration > 0 {
		fraction = math.Min(1, p.seconds/p.duration)
	}
	if p.done {
		fraction = 1
	}
	return Progress{Seconds: p.seconds, Fraction: fraction, Speed: p.speed, Done: p.done}
}

// ParseClock parses ffmpeg's HH:MM:SS.micro timestamps. Negative values,
// which ffmpeg reports before the first packet, clamp to zero.
func ParseClock(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	negative := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	if negative {
		return 0, true
	}
	return float64(hours*3600+minutes*60) + seconds, true
}
