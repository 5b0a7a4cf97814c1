// FILE: spicex/discovery.go

package spicex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SetConfigName sets the base name (without extension) used by ReadInConfig
// when searching the registered config paths.
func (c *Config) SetConfigName(name string) {
	c.mu.Lock()
	c.configName = name
	c.mu.Unlock()
}

// SetConfigType forces the format used to parse discovered files,
// overriding detection by extension. The value must match a registered
// parser extension, e.g. "yaml" or "toml".
func (c *Config) SetConfigType(ext string) {
	c.mu.Lock()
	c.configType = strings.TrimPrefix(strings.ToLower(ext), ".")
	c.mu.Unlock()
}

// AddConfigPath appends a directory to the search list. Directories are
// searched in registration order.
func (c *Config) AddConfigPath(path string) {
	c.mu.Lock()
	c.configPaths = append(c.configPaths, path)
	c.mu.Unlock()
}

// SetConfigFile pins an explicit file path, bypassing the search entirely.
func (c *Config) SetConfigFile(path string) {
	c.mu.Lock()
	c.configFile = path
	c.mu.Unlock()
}

// ConfigFileUsed returns the path of the file loaded by the last successful
// ReadInConfig or MergeInConfig, or "" if none.
func (c *Config) ConfigFileUsed() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fileLayer != nil {
		return c.fileLayer.Path()
	}
	return ""
}

// ReadInConfig locates the config file and loads it as the primary
// file-backed layer, replacing a previously loaded one. It returns
// ErrConfigNotFound when no candidate exists.
func (c *Config) ReadInConfig() error {
	path, err := c.findConfigFile()
	if err != nil {
		return err
	}

	c.mu.Lock()
	fs, configType := c.fs, c.configType
	c.mu.Unlock()

	var parser Parser
	if configType != "" {
		parser, err = ParserForExtension(configType)
		if err != nil {
			return err
		}
	}
	layer, err := newFileLayer(fs, path, parser)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.fileLayer != nil {
		for i, l := range c.layers {
			if l == Layer(c.fileLayer) {
				c.layers = append(c.layers[:i], c.layers[i+1:]...)
				break
			}
		}
	}
	c.fileLayer = layer
	c.layers = append(c.layers, layer)
	c.mu.Unlock()
	return nil
}

// MergeInConfig locates the config file and adds it as an additional
// file-backed layer, keeping any previously loaded ones. Later-added files
// win within the file rank.
func (c *Config) MergeInConfig() error {
	path, err := c.findConfigFile()
	if err != nil {
		return err
	}

	c.mu.Lock()
	fs := c.fs
	c.mu.Unlock()

	layer, err := NewFileLayerFS(fs, path)
	if err != nil {
		return err
	}
	c.AddLayer(layer)
	return nil
}

// findConfigFile resolves the effective config file path: an explicit
// SetConfigFile wins, otherwise the search paths are probed for
// name+extension combinations.
func (c *Config) findConfigFile() (string, error) {
	c.mu.RLock()
	fs := c.fs
	explicit := c.configFile
	name := c.configName
	configType := c.configType
	paths := make([]string, len(c.configPaths))
	copy(paths, c.configPaths)
	c.mu.RUnlock()

	if explicit != "" {
		return explicit, nil
	}
	if name == "" {
		return "", fmt.Errorf("%w: no config name set", ErrConfigNotFound)
	}

	extensions := SupportedExtensions()
	if configType != "" {
		extensions = []string{configType}
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	for _, dir := range paths {
		for _, ext := range extensions {
			candidate := filepath.Join(dir, name+"."+ext)
			if exists, _ := afero.Exists(fs, candidate); exists {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q in %v", ErrConfigNotFound, name, paths)
}

// XDGConfigPaths returns the XDG-compliant search directories for appName,
// suitable for AddConfigPath.
func XDGConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}
	return paths
}
