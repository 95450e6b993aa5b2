package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chapsplit/internal/chapters"
	"chapsplit/internal/media/ffprobe"
	"chapsplit/internal/splitter"
)

type chapterListing struct {
	Input             string             `json:"input"`
	Duration          float64            `json:"duration"`
	ContainerDuration float64            `json:"container_duration"`
	Size              int64              `json:"size_bytes"`
	BitRate           int64              `json:"bit_rate"`
	AudioStreams      int                `json:"audio_streams"`
	VideoStreams      int                `json:"video_streams"`
	Tags              map[string]string  `json:"tags,omitempty"`
	Chapters          []chapters.Chapter `json:"chapters"`
}

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	var asJSON, raw bool

	cmd := &cobra.Command{
		Use:     "chapters FILE",
		Aliases: []string{"list"},
		Short:   "List the chapters of a file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			input, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve input: %w", err)
			}
			probe, list, err := splitter.LoadChapters(cmd.Context(), splitter.NewProber(cfg), input)
			if raw && (err == nil || errors.Is(err, chapters.ErrNoChapters)) {
				out := cmd.OutOrStdout()
				doc := probe.RawJSON()
				if _, err := out.Write(doc); err != nil {
					return err
				}
				if !bytes.HasSuffix(doc, []byte("\n")) {
					fmt.Fprintln(out)
				}
				return nil
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, chapterListing{
					Input:             input,
					Duration:          chapters.TotalDuration(list),
					ContainerDuration: probe.DurationSeconds(),
					Size:              probe.SizeBytes(),
					BitRate:           probe.BitRate(),
					AudioStreams:      probe.AudioStreamCount(),
					VideoStreams:      probe.VideoStreamCount(),
					Tags:              probe.Format.Tags,
					Chapters:          list,
				})
			}

			rows := make([][]string, 0, len(list))
			for _, ch := range list {
				rows = append(rows, []string{
					strconv.Itoa(ch.Index),
					ch.Title,
					chapters.FormatClock(ch.Start),
					chapters.FormatClock(ch.End),
					chapters.FormatClock(ch.Duration()),
				})
			}
			footer := []string{
				strconv.Itoa(len(list)),
				filepath.Base(input),
				"",
				"",
				chapters.FormatClock(chapters.TotalDuration(list)),
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Title", "Start", "End", "Length"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
				footer,
			))
			fmt.Fprintln(out, containerSummary(probe, len(list)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the unprocessed ffprobe document")
	cmd.MarkFlagsMutuallyExclusive("json", "raw")
	return cmd
}

func containerSummary(probe ffprobe.Result, count int) string {
	var parts []string
	if size := probe.SizeBytes(); size > 0 {
		parts = append(parts, humanize.Bytes(uint64(size)))
	}
	parts = append(parts,
		fmt.Sprintf("%d chapter(s)", count),
		fmt.Sprintf("%d audio / %d video stream(s)", probe.AudioStreamCount(), probe.VideoStreamCount()),
	)
	if rate := probe.BitRate(); rate > 0 {
		parts = append(parts, humanize.SI(float64(rate), "bit/s"))
	}
	if length := probe.DurationSeconds(); length > 0 {
		parts = append(parts, "container "+chapters.FormatClock(length))
	}
	return strings.Join(parts, ", ")
}
