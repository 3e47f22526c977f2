package qcgc

import (
	"strconv"
	"strings"

	"github.com/inhies/go-bytesize"
)

// Default thresholds, used whenever the corresponding environment
// variable is unset or fails to parse (spec.md §6/§7: "Configuration
// parse failure... silent fallback to defaults; not reported").
const (
	DefaultMajorCollection = 8 * 1024 * 1024 // 8 MiB
	DefaultIncMark         = 512 * 1024      // 512 KiB
)

// LogLevel controls how chatty the default event Logger is.
type LogLevel int

const (
	LogQuiet LogLevel = iota
	LogInfo
	LogDebug
)

// Config holds the collector's environment-configurable thresholds.
type Config struct {
	// MajorCollection is the bytes_since_collection threshold that
	// triggers a full collect() before the next allocation (spec.md §4.2).
	MajorCollection uint64
	// IncMark is the bytes_since_incmark threshold that triggers one
	// incremental mark increment before the next allocation.
	IncMark uint64
	// LogLevel controls the default Logger's verbosity.
	LogLevel LogLevel
}

// DefaultConfig returns the compiled-in defaults, used before any
// environment override is applied.
func DefaultConfig() Config {
	return Config{
		MajorCollection: DefaultMajorCollection,
		IncMark:         DefaultIncMark,
		LogLevel:        LogInfo,
	}
}

// LoadConfig reads MAJOR_COLLECTION, INCMARK, and QCGC_LOG_LEVEL through
// getenv (ordinarily os.Getenv), accepting both bare byte counts and
// unit-suffixed byte sizes such as "8MiB". Any variable that is unset or
// fails to parse falls back to its compiled default independently of the
// others.
func LoadConfig(getenv func(string) string) Config {
	cfg := DefaultConfig()

	if v := getenv("MAJOR_COLLECTION"); v != "" {
		if n, ok := parseByteSize(v); ok {
			cfg.MajorCollection = n
		}
	}
	if v := getenv("INCMARK"); v != "" {
		if n, ok := parseByteSize(v); ok {
			cfg.IncMark = n
		}
	}
	switch getenv("QCGC_LOG_LEVEL") {
	case "quiet":
		cfg.LogLevel = LogQuiet
	case "debug":
		cfg.LogLevel = LogDebug
	case "info":
		cfg.LogLevel = LogInfo
	}
	return cfg
}

func parseByteSize(s string) (uint64, bool) {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, true
	}
	bs, err := bytesize.Parse(normalizeBinaryUnit(s))
	if err != nil {
		return 0, false
	}
	return uint64(bs), true
}

// normalizeBinaryUnit rewrites IEC binary suffixes ("KiB", "MiB", ...) to
// the suffixes go-bytesize actually recognizes ("KB", "MB", ...);
// go-bytesize's KB/MB/... are already powers of 1024, so the two
// notations denote the same quantity.
func normalizeBinaryUnit(s string) string {
	t := strings.TrimSpace(s)
	if len(t) < 3 {
		return t
	}
	unit, mag := t[len(t)-2:], t[len(t)-3]
	if (unit == "ib" || unit == "iB" || unit == "Ib" || unit == "IB") && isUnitMagnitude(mag) {
		return t[:len(t)-2] + t[len(t)-1:]
	}
	return t
}

func isUnitMagnitude(b byte) bool {
	switch b {
	case 'k', 'K', 'm', 'M', 'g', 'G', 't', 'T', 'p', 'P', 'e', 'E':
		return true
	default:
		return false
	}
}
