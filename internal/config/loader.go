package config

import (
	"fmt"
	"os"
	"path/filepath"

	pkgconfig "github.com/goran-ethernal/ChainDecoder/pkg/config"
)

// LoadFromFile loads configuration from a file, auto-detecting the format by extension.
// Supported formats: .yaml, .yml, .json, .toml
// Relative ABI paths are resolved against the directory of the config file.
func LoadFromFile(path string) (*pkgconfig.Config, error) {
	format, err := pkgconfig.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	return load(path, format)
}

// LoadFromYAML loads configuration from a YAML file.
func LoadFromYAML(path string) (*pkgconfig.Config, error) {
	return load(path, pkgconfig.FormatYAML)
}

// LoadFromJSON loads configuration from a JSON file.
func LoadFromJSON(path string) (*pkgconfig.Config, error) {
	return load(path, pkgconfig.FormatJSON)
}

// LoadFromTOML loads configuration from a TOML file.
func LoadFromTOML(path string) (*pkgconfig.Config, error) {
	return load(path, pkgconfig.FormatTOML)
}

func load(path, format string) (*pkgconfig.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := pkgconfig.Decode(data, format)
	if err != nil {
		return nil, err
	}

	resolvePaths(cfg, filepath.Dir(path))
	return cfg, nil
}

func resolvePaths(cfg *pkgconfig.Config, baseDir string) {
	for i := range cfg.Contracts {
		abiPath := cfg.Contracts[i].ABIPath
		if abiPath != "" && !filepath.IsAbs(abiPath) {
			cfg.Contracts[i].ABIPath = filepath.Join(baseDir, abiPath)
		}
	}
}
