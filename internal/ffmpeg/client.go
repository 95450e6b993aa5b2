package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"mvdan.cc/sh/v3/syntax"

	"chapsplit/internal/chapters"
	"chapsplit/internal/logging"
)

// Job describes one cut.
type Job struct {
	Input  string
	Output string
	// Start and End bound the cut, in seconds from the start of Input.
	Start     float64
	End       float64
	CodecCopy bool
	ExtraArgs []string
}

// Duration returns the length of the cut in seconds.
func (j Job) Duration() float64 {
	if j.End <= j.Start {
		return 0
	}
	return j.End - j.Start
}

// Executor abstracts command execution for testability. onStdout receives
// each stdout line in order from one goroutine.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger sets the logger used for command lines and dry runs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDryRun makes Cut log the command it would run instead of running it.
func WithDryRun(enabled bool) Option {
	return func(c *Client) {
		c.dryRun = enabled
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary string
	exec   Executor
	logger *slog.Logger
	dryRun bool
}

// New constructs an ffmpeg client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// DryRun reports whether the client only logs commands.
func (c *Client) DryRun() bool {
	return c.dryRun
}

// Cut runs ffmpeg for job. onProgress, when non-nil, receives parsed
// progress snapshots; the last one has Done set.
func (c *Client) Cut(ctx context.Context, job Job, onProgress func(Progress)) error {
	if strings.TrimSpace(job.Input) == "" {
		return errors.New("ffmpeg cut: input path required")
	}
	if strings.TrimSpace(job.Output) == "" {
		return errors.New("ffmpeg cut: output path required")
	}
	if job.End <= job.Start {
		return fmt.Errorf("ffmpeg cut: empty range %s-%s", chapters.FormatTimestamp(job.Start), chapters.FormatTimestamp(job.End))
	}

	partPath := PartPath(job.Output, uuid.NewString())
	args := BuildArgs(job, partPath)

	if c.dryRun {
		c.logger.Info("dry run", logging.String("command", CommandLine(c.binary, BuildArgs(job, job.Output))))
		return nil
	}
	logging.Trace(c.logger, "ffmpeg command", logging.String("command", CommandLine(c.binary, args)))

	parser := newProgressParser(job.Duration())
	err := c.exec.Run(ctx, c.binary, args, func(line string) {
		update, ok := parser.Feed(line)
		if ok && onProgress != nil {
			onProgress(update)
		}
	})
	if err != nil {
		_ = os.Remove(partPath)
		return fmt.Errorf("ffmpeg cut %s: %w", filepath.Base(job.Output), err)
	}

	if err := os.Rename(partPath, job.Output); err != nil {
		_ = os.Remove(partPath)
		return fmt.Errorf("finalize %s: %w", filepath.Base(job.Output), err)
	}
	if !parser.done && onProgress != nil {
		onProgress(Progress{Seconds: job.Duration(), Fraction: 1, Done: true})
	}
	return nil
}

// BuildArgs returns the ffmpeg arguments that cut job into output.
func BuildArgs(job Job, output string) []string {
	args := []string{
		"-y",
		"-i", job.Input,
		"-ss", chapters.FormatTimestamp(job.Start),
		"-to", chapters.FormatTimestamp(job.End),
	}
	if job.CodecCopy {
		args = append(args, "-codec", "copy")
	}
	args = append(args, job.ExtraArgs...)
	args = append(args, "-loglevel", "repeat+info", "-progress", "pipe:1", "-nostats", output)
	return args
}

// PartPath returns the temporary path used while writing output. The
// extension is kept last so ffmpeg still picks the right muxer.
func PartPath(output, token string) string {
	dir, name := filepath.Split(output)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, "."+stem+"."+token+".part"+ext)
}

// CommandLine renders binary and args as a copy-pasteable shell command.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, arg := range append([]string{binary}, args...) {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			quoted = fmt.Sprintf("%q", arg)
		}
		parts = append(parts, quoted)
	}
	return strings.Join(parts, " ")
}
