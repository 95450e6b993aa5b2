package main

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "chapsplit",
		Short:         "Split audio and video files by chapter",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.CountVarP(&ctx.verbosity.Count, "verbose", "v", "Increase log detail (repeat up to 3 times)")
	flags.BoolVarP(&ctx.verbosity.Quiet, "quiet", "q", false, "Only log warnings and errors")
	flags.BoolVarP(&ctx.verbosity.Debug, "debug", "d", false, "Log everything with source locations")
	rootCmd.Flags().BoolP("version", "V", false, "Print the version and exit")

	rootCmd.AddCommand(newSplitCommand(ctx))
	rootCmd.AddCommand(newChaptersCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
