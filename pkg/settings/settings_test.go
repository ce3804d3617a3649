package settings

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/galaxygen/pkg/errors"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDefaultIsFreshCopy(t *testing.T) {
	a := Default()
	a.GalaxyTypes["spiral"] = a.GalaxyTypes["barred"]
	b := Default()
	if b.GalaxyTypes["spiral"] != DefaultGalaxyTypes["spiral"] {
		t.Error("Default() should not share the profile table")
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"), quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Parameters.Size != DefaultSize {
		t.Errorf("Size = %d, want default %d", s.Parameters.Size, DefaultSize)
	}
}

func TestLoadUnparsableFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("this is = = not toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	s, err := Load(path, logger)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Parameters.Arms != DefaultArms {
		t.Errorf("Arms = %d, want default", s.Parameters.Arms)
	}
	if buf.Len() == 0 {
		t.Error("a warning should be logged")
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	content := `
[parameters]
size = 1024
arms = 5

[galaxy_types.custom]
tightness = 2.0
bar = 0.1
core_spread = 0.5
core_chance = 0.3

[generation.hyperlanes]
branch_chance = 0.5

[cache]
ttl = "1h"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path, quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Parameters.Size != 1024 || s.Parameters.Arms != 5 {
		t.Errorf("parameters not decoded: %+v", s.Parameters)
	}
	if s.Parameters.Stars != DefaultStars {
		t.Errorf("missing keys should keep defaults, Stars = %d", s.Parameters.Stars)
	}
	if _, err := s.Profile("custom"); err != nil {
		t.Errorf("custom profile missing: %v", err)
	}
	if _, err := s.Profile("spiral"); err != nil {
		t.Errorf("built-in profiles should remain: %v", err)
	}
	if s.Generation.Hyperlanes.BranchChance != 0.5 {
		t.Errorf("BranchChance = %v", s.Generation.Hyperlanes.BranchChance)
	}
	if s.Generation.Hyperlanes.StepSize != 0.1 {
		t.Errorf("StepSize should keep its default, got %v", s.Generation.Hyperlanes.StepSize)
	}
	if s.Cache.TTL.Duration != time.Hour {
		t.Errorf("TTL = %v, want 1h", s.Cache.TTL)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero tightness", "[galaxy_types.flat]\ntightness = 0.0\n"},
		{"negative tightness", "[galaxy_types.flat]\ntightness = -0.5\n"},
		{"negative main length", "[generation.hyperlanes]\nmain_length_factor = -1.0\n"},
		{"negative branch length", "[generation.hyperlanes]\nbranch_length_factor = -30.0\n"},
		{"negative cluster size", "[generation.hyperlanes]\ncluster_size_factor = -6.0\n"},
		{"negative cooldown", "[generation.hyperlanes]\nspecial_generation_distance = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(path, quietLogger())
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestParseUnknownKey(t *testing.T) {
	if _, err := Parse([]byte("[parameters]\ncolour = 3\n")); err == nil {
		t.Error("unknown keys should be rejected")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvCacheDir, "/tmp/galaxy-cache")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/2")

	s, err := Load(filepath.Join(t.TempDir(), "none.toml"), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if s.Cache.Dir != "/tmp/galaxy-cache" || s.Cache.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("env overrides not applied: %+v", s.Cache)
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "")
	if Path("") != DefaultPath {
		t.Errorf("Path(\"\") = %q", Path(""))
	}
	t.Setenv(EnvConfig, "/etc/galaxy.toml")
	if Path("") != "/etc/galaxy.toml" {
		t.Errorf("env path not used: %q", Path(""))
	}
	if Path("x.toml") != "x.toml" {
		t.Error("explicit path should win")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Default()); err != nil {
		t.Fatal(err)
	}
	s, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(Write(Default())) error = %v", err)
	}
	if s.Server.Timeout.Duration != 2*time.Minute {
		t.Errorf("Timeout = %v", s.Server.Timeout)
	}
}

func TestProfileUnknown(t *testing.T) {
	_, err := Default().Profile("elliptical")
	if !errors.Is(err, errors.ErrCodeInvalidProfile) {
		t.Errorf("Profile(unknown) error = %v, want INVALID_PROFILE", err)
	}
}

func TestValidateBreakChance(t *testing.T) {
	s := Default()
	s.Generation.Hyperlanes.BreakChanceMin = 0.9
	if err := s.Validate(); err == nil {
		t.Error("min above max should be rejected")
	}
}
