package ffmpeg

//go:generate $MOCKGEN -source=locator.go -destination=mocks/locator_mock.go

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrTranscoderNotFound indicates that ffmpeg could not be found.
var ErrTranscoderNotFound = errors.New("ffmpeg not found")

// Locator resolves the ffmpeg binary.
type Locator interface {
	// Locate returns the location to pass to the downloader.
	// With a custom directory it returns that directory if ffmpeg exists inside it.
	// Without one it searches PATH and returns the found binary.
	Locate(customDir string) (string, error)
}

// LocatorImpl looks ffmpeg up on the local filesystem.
type LocatorImpl struct {
	// goos selects the binary name and the install hint.
	goos string
	// lookPath searches PATH for an executable.
	lookPath func(file string) (string, error)
}

// NewLocator creates a Locator for the current platform.
func NewLocator() Locator {
	return &LocatorImpl{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
	}
}

// Locate resolves ffmpeg inside customDir, or on PATH when customDir is empty.
func (l *LocatorImpl) Locate(customDir string) (string, error) {
	customDir = strings.TrimSpace(customDir)
	if customDir != "" {
		candidate := filepath.Join(customDir, binaryName(l.goos))

		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w in '%s'", ErrTranscoderNotFound, customDir)
		}

		return customDir, nil
	}

	path, err := l.lookPath(binaryName(l.goos))
	if err != nil {
		return "", fmt.Errorf("%w in PATH: %w", ErrTranscoderNotFound, err)
	}

	return path, nil
}

// InstallHint returns the command that installs ffmpeg on the given platform.
func InstallHint(goos string) string {
	switch goos {
	case "windows":
		return "winget install Gyan.FFmpeg"
	case "darwin":
		return "brew install ffmpeg"
	default:
		return "sudo apt install ffmpeg"
	}
}

// binaryName returns the ffmpeg executable name for the platform.
func binaryName(goos string) string {
	if goos == "windows" {
		return "ffmpeg.exe"
	}

	return "ffmpeg"
}
