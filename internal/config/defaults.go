package config

const (
	defaultConfigPath       = "~/.config/chapsplit/config.toml"
	defaultOutputDir        = "."
	defaultOutputTemplate   = "{index:02d} - {title}.{ext}"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultProbeTimeout     = 60
	defaultProgressMode     = ProgressAuto
	defaultProgressSep      = " "
	defaultProgressFill     = "#"
	defaultProgressEmpty    = "-"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultOverwriteOutputs = true
)

// Progress modes.
const (
	ProgressAuto   = "auto"
	ProgressAlways = "always"
	ProgressNever  = "never"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Output: Output{
			Dir:       defaultOutputDir,
			Template:  defaultOutputTemplate,
			Overwrite: defaultOverwriteOutputs,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			ProbeTimeout:  defaultProbeTimeout,
		},
		Progress: Progress{
			Mode:      defaultProgressMode,
			Separator: defaultProgressSep,
			Fill:      defaultProgressFill,
			Empty:     defaultProgressEmpty,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
