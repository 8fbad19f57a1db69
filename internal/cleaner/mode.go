package cleaner

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModeFull         Mode = "full"
	ModeCacheOnly    Mode = "cache-only"
	ModeIdentityOnly Mode = "identity-only"
	ModeInfo         Mode = "info"
)

// Modes lists every mode, default first.
var Modes = []Mode{ModeFull, ModeCacheOnly, ModeIdentityOnly, ModeInfo}

func (m Mode) Description() string {
	switch m {
	case ModeFull:
		return "reset identifiers and remove state database, cache, workspace storage and logs"
	case ModeCacheOnly:
		return "remove the cache directory only"
	case ModeIdentityOnly:
		return "reset the machine identifiers only"
	case ModeInfo:
		return "show paths and process status"
	}
	return ""
}

// ParseMode accepts the mode names plus a few aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return ModeFull, nil
	case "cache-only", "cache":
		return ModeCacheOnly, nil
	case "identity-only", "identity", "machine-id-only":
		return ModeIdentityOnly, nil
	case "info":
		return ModeInfo, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}
