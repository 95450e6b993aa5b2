package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"chapsplit/internal/config"
	"chapsplit/internal/deps"
)

// CheckDirectoryAccess verifies that path is an existing directory the
// current user can read, write and traverse.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputDirectory is CheckDirectoryAccess for a directory chapsplit
// may create: a missing path passes when its nearest existing ancestor is
// writable.
func CheckOutputDirectory(name, path string) Result {
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return CheckDirectoryAccess(name, path)
	}
	ancestor := parentDir(path)
	for {
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
		next := parentDir(ancestor)
		if next == ancestor {
			break
		}
		ancestor = next
	}
	parent := CheckDirectoryAccess(name, ancestor)
	if !parent.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s)", path, ancestor)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckInputFile verifies that path is a readable regular file.
func CheckInputFile(path string) Result {
	const name = "Input"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckSystemDeps evaluates the ffmpeg and ffprobe binaries configured in
// cfg. withVersions also runs each available binary to read its version.
func CheckSystemDeps(ctx context.Context, cfg *config.Config, withVersions bool) []deps.Status {
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	if withVersions {
		deps.ProbeVersions(ctx, statuses)
	}
	return statuses
}

func parentDir(path string) string {
	return filepath.Dir(filepath.Clean(path))
}
