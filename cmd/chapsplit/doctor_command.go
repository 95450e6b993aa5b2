package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chapsplit/internal/journal"
	"chapsplit/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that chapsplit can run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var lines []string
			problems := 0

			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			if ctx.configExists {
				lines = append(lines, renderStatusLine("Config", statusOK, ctx.configPath, colorize))
			} else {
				lines = append(lines, renderStatusLine("Config", statusInfo, "Defaults (no file at "+ctx.configPath+")", colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg, true) {
				if !status.Available {
					problems++
					lines = append(lines, renderStatusLine(status.Name, statusError, status.Detail, colorize))
					continue
				}
				detail := status.Path
				if status.Version != "" {
					detail = fmt.Sprintf("%s (%s)", status.Version, status.Path)
				}
				lines = append(lines, renderStatusLine(status.Name, statusOK, detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Paths", colorize)...)
			for _, result := range preflight.PathChecks(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					problems++
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			lines = append(lines, journalStatusLine(cfg.Journal.Enabled, cfg.Journal.Path, colorize))

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			if problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", problems)
			}
			return nil
		},
	}
}

func journalStatusLine(enabled bool, path string, colorize bool) string {
	if !enabled {
		return renderStatusLine("Journal", statusWarn, "Disabled (--resume has no effect)", colorize)
	}
	if strings.TrimSpace(path) == "" {
		resolved, err := journal.DefaultPath()
		if err != nil {
			return renderStatusLine("Journal", statusWarn, err.Error(), colorize)
		}
		path = resolved
	}
	return renderStatusLine("Journal", statusInfo, path, colorize)
}
