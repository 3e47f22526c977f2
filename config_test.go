package qcgc

import "testing"

func TestLoadConfigDefaultsOnEmptyEnv(t *testing.T) {
	cfg := LoadConfig(func(string) string { return "" })
	if cfg.MajorCollection != DefaultMajorCollection {
		t.Errorf("MajorCollection = %d, want default %d", cfg.MajorCollection, DefaultMajorCollection)
	}
	if cfg.IncMark != DefaultIncMark {
		t.Errorf("IncMark = %d, want default %d", cfg.IncMark, DefaultIncMark)
	}
	if cfg.LogLevel != LogInfo {
		t.Errorf("LogLevel = %v, want LogInfo", cfg.LogLevel)
	}
}

func TestLoadConfigParsesByteSizeSuffix(t *testing.T) {
	env := map[string]string{
		"MAJOR_COLLECTION": "4MiB",
		"INCMARK":          "256KiB",
		"QCGC_LOG_LEVEL":   "debug",
	}
	cfg := LoadConfig(func(k string) string { return env[k] })
	if want := uint64(4 * 1024 * 1024); cfg.MajorCollection != want {
		t.Errorf("MajorCollection = %d, want %d", cfg.MajorCollection, want)
	}
	if want := uint64(256 * 1024); cfg.IncMark != want {
		t.Errorf("IncMark = %d, want %d", cfg.IncMark, want)
	}
	if cfg.LogLevel != LogDebug {
		t.Errorf("LogLevel = %v, want LogDebug", cfg.LogLevel)
	}
}

func TestLoadConfigParsesBareIntegers(t *testing.T) {
	env := map[string]string{"MAJOR_COLLECTION": "12345"}
	cfg := LoadConfig(func(k string) string { return env[k] })
	if cfg.MajorCollection != 12345 {
		t.Errorf("MajorCollection = %d, want 12345", cfg.MajorCollection)
	}
}

func TestLoadConfigFallsBackOnGarbage(t *testing.T) {
	env := map[string]string{"MAJOR_COLLECTION": "not-a-size"}
	cfg := LoadConfig(func(k string) string { return env[k] })
	if cfg.MajorCollection != DefaultMajorCollection {
		t.Errorf("MajorCollection = %d, want fallback to default", cfg.MajorCollection)
	}
}
