package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chapsplit/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	inputPath  string
	outputDir  string
	binDir     string
}

const ffmpegStub = `#!/bin/sh
if [ "$1" = "-version" ]; then
	echo "ffmpeg version stub"
	exit 0
fi
for arg in "$@"; do out="$arg"; done
printf 'chapter' > "$out"
echo "out_time_us=500000"
echo "progress=continue"
echo "progress=end"
`

// setupCLITestEnv writes stub ffprobe/ffmpeg binaries, a two chapter input
// and a config pointing at them. extra is appended to the config file.
func setupCLITestEnv(t *testing.T, extra string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		inputPath:  filepath.Join(base, "in", "book.m4b"),
		outputDir:  filepath.Join(base, "out"),
		binDir:     filepath.Join(base, "bin"),
	}
	testsupport.WriteFile(t, env.inputPath, 2048)

	probe := testsupport.ProbeJSON(t, map[string]string{"artist": "Jane Doe"},
		testsupport.ProbeChapter{Title: "Intro", Start: 0, End: 10},
		testsupport.ProbeChapter{Title: "Finale", Start: 10, End: 25},
	)
	probePath := filepath.Join(base, "probe.json")
	if err := os.WriteFile(probePath, probe, 0o644); err != nil {
		t.Fatalf("write probe json: %v", err)
	}
	writeScript(t, filepath.Join(env.binDir, "ffprobe"), fmt.Sprintf("#!/bin/sh\ncat %q\n", probePath))
	writeScript(t, filepath.Join(env.binDir, "ffmpeg"), ffmpegStub)

	content := fmt.Sprintf(`[output]
dir = %q

[ffmpeg]
ffmpeg_binary = %q
ffprobe_binary = %q

[progress]
mode = "never"

[journal]
path = %q
`, env.outputDir, filepath.Join(env.binDir, "ffmpeg"), filepath.Join(env.binDir, "ffprobe"), filepath.Join(base, "state", "journal.db"))
	if err := os.WriteFile(env.configPath, []byte(content+extra), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
