package settings

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/galaxygen/pkg/errors"
)

// DefaultPath is the settings file read when no path is given.
const DefaultPath = "settings.toml"

// Environment variables that override file settings.
const (
	EnvConfig   = "GALAXYGEN_CONFIG"
	EnvCacheDir = "GALAXYGEN_CACHE_DIR"
	EnvRedisURL = "GALAXYGEN_REDIS_URL"
)

// Path resolves the settings file location: an explicit path wins, then
// $GALAXYGEN_CONFIG, then DefaultPath.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return DefaultPath
}

// LoadEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment are kept.
func LoadEnv(logger *log.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "reason", err)
	}
}

// Load reads settings from path and falls back to defaults when the file is
// missing or cannot be parsed. The returned settings are validated; the
// error is non-nil only when the file parsed but holds values the
// generators cannot run with.
func Load(path string, logger *log.Logger) (*Settings, error) {
	if logger == nil {
		logger = log.Default()
	}

	s := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Debug("settings file not found, using defaults", "path", path)
	case err != nil:
		logger.Warn("could not read settings, using defaults", "path", path, "error", err)
	default:
		parsed, perr := Parse(data)
		if perr != nil {
			logger.Warn("could not parse settings, using defaults", "path", path, "error", perr)
		} else {
			s = parsed
			logger.Debug("settings loaded", "path", path)
		}
	}

	s.applyEnv()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse decodes TOML over the defaults. Galaxy types from the file are
// added to the built-in table, replacing entries with the same name.
func Parse(data []byte) (*Settings, error) {
	s := Default()
	md, err := toml.Decode(string(data), s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse settings")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown settings key: %s", undecoded[0].String())
	}
	return s, nil
}

// Write encodes s as TOML.
func Write(w io.Writer, s *Settings) error {
	return toml.NewEncoder(w).Encode(s)
}

func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvCacheDir); v != "" {
		s.Cache.Dir = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		s.Cache.RedisURL = v
	}
}
