package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godfearingman/ape/pkg/runtime"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ape.yml")
	writeFile(t, path, `
precision: 3
log_level: debug
prompt: "calc> "
history_file: .history
cache_dir: /var/cache/ape
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 3, cfg.Precision)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "calc> ", cfg.Prompt)
	assert.Equal(t, DefaultContinuationPrompt, cfg.ContinuationPrompt)
	assert.Equal(t, filepath.Join(dir, ".history"), cfg.HistoryFile)
	assert.Equal(t, "/var/cache/ape", cfg.CacheDir)
}

func TestLoadConfigTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ape.toml")
	writeFile(t, path, `
precision = 0
continuation_prompt = ".. "
cache_dir = "cache"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Precision)
	assert.Equal(t, ".. ", cfg.ContinuationPrompt)
	assert.Equal(t, DefaultPrompt, cfg.Prompt)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "cache"), cfg.CacheDir)
}

func TestLoadConfigEmptyYAMLUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ape.yaml")
	writeFile(t, path, "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, runtime.ShortestPrecision, cfg.Precision)
	assert.Equal(t, DefaultPrompt, cfg.Prompt)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "ape.yml")
	writeFile(t, yamlPath, "precision: 2\ncolour: blue\n")
	_, err := LoadConfig(yamlPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")

	tomlPath := filepath.Join(dir, "ape.toml")
	writeFile(t, tomlPath, "precision = 2\ncolour = \"blue\"\n")
	_, err = LoadConfig(tomlPath)
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %T", err)
	assert.Equal(t, []string{`unknown key "colour"`}, verr.Issues)
}

func TestLoadConfigAggregatesValidationIssues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ape.yml")
	writeFile(t, path, `
precision: 99
log_level: loud
prompt: ""
cache_dir: " "
`)

	_, err := LoadConfig(path)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %T: %v", err, err)
	require.Len(t, verr.Issues, 4)
	assert.Contains(t, verr.Issues[0], "precision must be between -1 and 20")
	assert.Contains(t, verr.Issues[1], "log_level")
	assert.Equal(t, "prompt must not be empty", verr.Issues[2])
	assert.Equal(t, "cache_dir must not be empty", verr.Issues[3])
	assert.True(t, strings.HasPrefix(err.Error(), "config "+path+" validation failed:"))
}

func TestLoadConfigUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ape.json")
	writeFile(t, path, "{}")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestFindConfigWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := FindConfig(nested)
	require.NoError(t, err)
	if path != "" && strings.HasPrefix(path, root) {
		t.Fatalf("unexpected config found: %s", path)
	}

	writeFile(t, filepath.Join(root, "a", "ape.toml"), "precision = 1\n")
	path, err = FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "ape.toml"), path)

	writeFile(t, filepath.Join(root, "a", "b", "ape.yml"), "precision: 2\n")
	path, err = FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b", "ape.yml"), path)
}

func TestResolveConfigPrefersExplicitPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ape.yml"), "precision: 2\n")
	explicit := filepath.Join(root, "other", "custom.toml")
	writeFile(t, explicit, "precision = 5\n")

	cfg, err := ResolveConfig(explicit, root)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Precision)

	cfg, err = ResolveConfig("", root)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Precision)
}

func TestApplyLogLevel(t *testing.T) {
	require.NoError(t, ApplyLogLevel("info"))
	require.Error(t, ApplyLogLevel("loud"))
}
