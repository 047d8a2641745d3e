package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/godfearingman/ape/pkg/runtime"
)

const (
	DefaultPrompt             = "ape> "
	DefaultContinuationPrompt = "...> "
	DefaultLogLevel           = "info"

	maxPrecision = 20
)

// ConfigFileNames are tried in order in each directory while searching
// upward for a configuration file.
var ConfigFileNames = []string{"ape.yml", "ape.yaml", "ape.toml"}

// Config is the resolved tool configuration. Zero-value fields in the file
// keep their defaults.
type Config struct {
	Path               string
	Precision          int
	LogLevel           string
	HistoryFile        string
	Prompt             string
	ContinuationPrompt string
	CacheDir           string
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	cfg := &Config{
		Precision:          runtime.ShortestPrecision,
		LogLevel:           DefaultLogLevel,
		Prompt:             DefaultPrompt,
		ContinuationPrompt: DefaultContinuationPrompt,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".ape_history")
	}
	if cache, err := os.UserCacheDir(); err == nil {
		cfg.CacheDir = filepath.Join(cache, "ape")
	} else {
		cfg.CacheDir = filepath.Join(os.TempDir(), "ape-cache")
	}
	return cfg
}

type configFile struct {
	Precision          *int    `yaml:"precision" toml:"precision"`
	LogLevel           *string `yaml:"log_level" toml:"log_level"`
	HistoryFile        *string `yaml:"history_file" toml:"history_file"`
	Prompt             *string `yaml:"prompt" toml:"prompt"`
	ContinuationPrompt *string `yaml:"continuation_prompt" toml:"continuation_prompt"`
	CacheDir           *string `yaml:"cache_dir" toml:"cache_dir"`
}

// LoadConfig parses a YAML or TOML configuration file, chosen by extension,
// on top of DefaultConfig. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}

	var raw configFile
	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".toml":
		if err := decodeTOMLConfig(absPath, &raw); err != nil {
			return nil, err
		}
	case ".yml", ".yaml":
		if err := decodeYAMLConfig(absPath, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("config: %s: unsupported extension %q", absPath, ext)
	}

	cfg := DefaultConfig()
	cfg.Path = absPath
	if err := raw.applyTo(cfg, filepath.Dir(absPath)); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAMLConfig(path string, raw *configFile) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func decodeTOMLConfig(path string, raw *configFile) error {
	meta, err := toml.DecodeFile(path, raw)
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		errs := ValidationError{Subject: "config " + path}
		for _, key := range undecoded {
			errs.add(fmt.Sprintf("unknown key %q", key.String()))
		}
		return &errs
	}
	return nil
}

func (raw configFile) applyTo(cfg *Config, baseDir string) error {
	errs := ValidationError{Subject: "config " + cfg.Path}
	if raw.Precision != nil {
		if err := ValidatePrecision(*raw.Precision); err != nil {
			errs.add(err.Error())
		} else {
			cfg.Precision = *raw.Precision
		}
	}
	if raw.LogLevel != nil {
		level := strings.TrimSpace(*raw.LogLevel)
		if _, err := log.ValidateLevel(level); err != nil {
			errs.add(fmt.Sprintf("log_level: %v", err))
		} else {
			cfg.LogLevel = level
		}
	}
	if raw.Prompt != nil {
		if *raw.Prompt == "" {
			errs.add("prompt must not be empty")
		} else {
			cfg.Prompt = *raw.Prompt
		}
	}
	if raw.ContinuationPrompt != nil {
		if *raw.ContinuationPrompt == "" {
			errs.add("continuation_prompt must not be empty")
		} else {
			cfg.ContinuationPrompt = *raw.ContinuationPrompt
		}
	}
	if raw.HistoryFile != nil {
		cfg.HistoryFile = resolvePath(baseDir, *raw.HistoryFile)
	}
	if raw.CacheDir != nil {
		if strings.TrimSpace(*raw.CacheDir) == "" {
			errs.add("cache_dir must not be empty")
		} else {
			cfg.CacheDir = resolvePath(baseDir, *raw.CacheDir)
		}
	}
	return errs.orNil()
}

// ValidatePrecision accepts runtime.ShortestPrecision or a digit count up
// to 20.
func ValidatePrecision(p int) error {
	if p < runtime.ShortestPrecision || p > maxPrecision {
		return fmt.Errorf("precision must be between %d and %d, got %d", runtime.ShortestPrecision, maxPrecision, p)
	}
	return nil
}

// resolvePath anchors relative paths at the directory of the config file.
// An empty path stays empty.
func resolvePath(baseDir, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// FindConfig walks from start up to the filesystem root and returns the first
// configuration file found, or "" when there is none.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", start, err)
	}
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("config: stat %s: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ResolveConfig loads the explicit path when given, otherwise the file found
// from start, otherwise the defaults.
func ResolveConfig(explicit, start string) (*Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	path, err := FindConfig(start)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	log.LogVf("config: using %s", path)
	return LoadConfig(path)
}

// ApplyLogLevel sets the process-wide log level by name.
func ApplyLogLevel(level string) error {
	lvl, err := log.ValidateLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLogLevel(lvl)
	return nil
}
