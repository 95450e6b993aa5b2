package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chapsplit/internal/chapters"
	"chapsplit/internal/config"
	"chapsplit/internal/deps"
	"chapsplit/internal/ffmpeg"
	"chapsplit/internal/journal"
	"chapsplit/internal/logging"
	"chapsplit/internal/preflight"
	"chapsplit/internal/splitter"
	"chapsplit/internal/statusline"
	"chapsplit/internal/termsize"
)

type splitFlags struct {
	template   string
	dir        string
	only       string
	codecCopy  bool
	dryRun     bool
	progress   bool
	noProgress bool
	restrict   bool
	resume     bool
}

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var flags splitFlags

	cmd := &cobra.Command{
		Use:   "split FILE",
		Short: "Write one file per chapter",
		Long: `Write one file per chapter of FILE.

Chapters are cut with ffmpeg, re-encoding by default so cuts land exactly on
chapter boundaries. --codec-copy copies streams instead, which is much faster
but cuts on keyframes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			selection, err := chapters.ParseSelection(flags.only)
			if err != nil {
				return err
			}

			input, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve input: %w", err)
			}
			if check := preflight.CheckInputFile(input); !check.Passed {
				return fmt.Errorf("input: %s", check.Detail)
			}
			if err := requireBinaries(cmd, cfg, flags.dryRun); err != nil {
				return err
			}

			logger := ctx.loggerOrNop()
			client, err := ffmpeg.New(cfg.FFmpeg.FFmpegBinary, ffmpeg.WithLogger(logger), ffmpeg.WithDryRun(flags.dryRun))
			if err != nil {
				return err
			}

			var opts []splitter.Option
			switch {
			case flags.dryRun:
			case cfg.Journal.Enabled:
				store, err := journal.Open(cfg.Journal.Path)
				if err != nil {
					return err
				}
				defer store.Close()
				logging.VeryVerbose(logger, "using journal", logging.String("path", store.Path()))
				opts = append(opts, splitter.WithJournal(store))
			case flags.resume:
				logger.Warn("journal is disabled; --resume has no effect")
			}
			out := cmd.OutOrStdout()
			if showProgress(cfg.Progress.Mode, out) {
				opts = append(opts, splitter.WithStatus(ctx.status, widthOf(out)))
			}

			s, err := splitter.New(cfg, client, logger, opts...)
			if err != nil {
				return err
			}
			result, err := s.Run(cmd.Context(), splitter.Request{
				Input:     input,
				Selection: selection,
				Resume:    flags.resume,
				DryRun:    flags.dryRun,
			})
			if err != nil {
				return err
			}
			printSummary(out, cfg.Output.Dir, result)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.template, "output", "o", "", "Output filename template (default from config)")
	f.StringVar(&flags.dir, "dir", "", "Directory to write chapters to")
	f.StringVar(&flags.only, "only-chapters", "", "Chapters to write, e.g. 1,3,5-7")
	f.BoolVar(&flags.codecCopy, "codec-copy", false, "Copy streams instead of re-encoding")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Log the ffmpeg commands without running them")
	f.BoolVar(&flags.progress, "progress", false, "Always draw the status line")
	f.BoolVar(&flags.noProgress, "no-progress", false, "Never draw the status line")
	f.BoolVar(&flags.restrict, "restrict-filenames", false, "Restrict filenames to ASCII without spaces")
	f.BoolVar(&flags.resume, "resume", false, "Skip chapters a previous run already wrote")
	cmd.MarkFlagsMutuallyExclusive("progress", "no-progress")

	return cmd
}

// apply copies explicitly set flags over cfg and revalidates it.
func (f splitFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.Output.Template = f.template
	}
	if changed("dir") {
		dir, err := config.ExpandPath(strings.TrimSpace(f.dir))
		if err != nil {
			return fmt.Errorf("resolve --dir: %w", err)
		}
		cfg.Output.Dir = dir
	}
	if changed("codec-copy") {
		cfg.FFmpeg.CodecCopy = f.codecCopy
	}
	if changed("restrict-filenames") {
		cfg.Output.RestrictFilenames = f.restrict
	}
	switch {
	case f.progress:
		cfg.Progress.Mode = config.ProgressAlways
	case f.noProgress:
		cfg.Progress.Mode = config.ProgressNever
	}
	return cfg.Validate()
}

// requireBinaries fails when ffprobe, or ffmpeg outside a dry run, is missing.
func requireBinaries(cmd *cobra.Command, cfg *config.Config, dryRun bool) error {
	statuses := preflight.CheckSystemDeps(cmd.Context(), cfg, false)
	var problems []string
	for _, status := range deps.Missing(statuses) {
		if dryRun && status.Name == deps.NameFFmpeg {
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %s", status.Name, status.Detail))
	}
	if len(problems) > 0 {
		return errors.New("missing dependencies: " + strings.Join(problems, "; "))
	}
	return nil
}

func showProgress(mode string, out io.Writer) bool {
	switch mode {
	case config.ProgressAlways:
		return true
	case config.ProgressNever:
		return false
	default:
		return termsize.IsTerminal(out)
	}
}

// widthOf tracks the terminal behind out. A non-file writer gets nil, which
// leaves the line at its default width.
func widthOf(out io.Writer) statusline.WidthFunc {
	if file, ok := out.(*os.File); ok {
		return termsize.WidthOf(file)
	}
	return nil
}

func printSummary(out io.Writer, dir string, result splitter.Result) {
	if result.DryRun {
		fmt.Fprintf(out, "Dry run: %d chapter(s) would be written to %s\n", len(result.Outputs), dir)
		return
	}
	fmt.Fprintf(out, "Wrote %d chapter(s), %s, to %s in %s\n",
		result.Written(),
		humanize.Bytes(uint64(result.Bytes)),
		dir,
		result.Elapsed.Round(time.Millisecond))
	if skipped := result.Skipped(); skipped > 0 {
		fmt.Fprintf(out, "Skipped %d chapter(s) already written by an earlier run\n", skipped)
	}
}
