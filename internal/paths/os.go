package paths

import (
	"fmt"
	"runtime"
	"strings"
)

// OS is the closed set of operating systems the resolver knows about.
type OS int

const (
	Unknown OS = iota
	Linux
	MacOS
	Windows
)

func (o OS) String() string {
	switch o {
	case Linux:
		return "linux"
	case MacOS:
		return "macos"
	case Windows:
		return "windows"
	default:
		return "unknown"
	}
}

// ParseOS maps a GOOS-style name to an OS.
func ParseOS(name string) (OS, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linux":
		return Linux, nil
	case "darwin", "macos":
		return MacOS, nil
	case "windows":
		return Windows, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, name)
}

// Detect returns the OS the binary is running on.
func Detect() (OS, error) {
	return ParseOS(runtime.GOOS)
}
