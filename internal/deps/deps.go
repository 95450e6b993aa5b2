// Package deps checks that the external binaries chapsplit drives are
// installed and reports their versions.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"chapsplit/internal/config"
)

// Dependency names as reported in Status.Name.
const (
	NameFFprobe = "FFprobe"
	NameFFmpeg  = "FFmpeg"
)

// Requirement defines an external dependency chapsplit relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Version     string
	Detail      string
}

// Requirements returns the binaries a split needs under cfg.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: NameFFprobe, Command: cfg.FFmpeg.FFprobeBinary, Description: "Reads chapters and container tags"},
		{Name: NameFFmpeg, Command: cfg.FFmpeg.FFmpegBinary, Description: "Cuts chapters"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

const versionTimeout = 5 * time.Second

// ProbeVersions fills Version for available statuses by running
// "<binary> -version" and keeping the first line.
func ProbeVersions(ctx context.Context, statuses []Status) {
	for i := range statuses {
		if !statuses[i].Available {
			continue
		}
		statuses[i].Version = probeVersion(ctx, statuses[i].Path)
	}
}

func probeVersion(ctx context.Context, binary string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return ""
	}
	first, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(first)
}

// Missing returns the required (non-optional) statuses that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}
