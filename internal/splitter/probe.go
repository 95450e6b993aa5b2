package splitter

import (
	"context"
	"time"

	"chapsplit/internal/chapters"
	"chapsplit/internal/config"
	"chapsplit/internal/media/ffprobe"
)

// Prober reads chapters and tags from an input.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// ProbeFunc adapts a function to Prober.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Inspect calls f.
func (f ProbeFunc) Inspect(ctx context.Context, path string) (ffprobe.Result, error) {
	return f(ctx, path)
}

// NewProber returns a Prober running the configured ffprobe binary with
// the configured timeout.
func NewProber(cfg *config.Config) Prober {
	binary := cfg.FFmpeg.FFprobeBinary
	timeout := time.Duration(cfg.FFmpeg.ProbeTimeout) * time.Second
	return ProbeFunc(func(ctx context.Context, path string) (ffprobe.Result, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return ffprobe.Inspect(ctx, binary, path)
	})
}

// LoadChapters probes path and returns the raw result with its chapters.
func LoadChapters(ctx context.Context, prober Prober, path string) (ffprobe.Result, []chapters.Chapter, error) {
	result, err := prober.Inspect(ctx, path)
	if err != nil {
		return ffprobe.Result{}, nil, err
	}
	list, err := chapters.FromProbe(result)
	if err != nil {
		return result, nil, err
	}
	return result, list, nil
}
