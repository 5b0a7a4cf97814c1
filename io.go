// FILE: spicex/io.go

package spicex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteConfig serializes the fully merged configuration back to the file
// loaded by ReadInConfig, overwriting it.
func (c *Config) WriteConfig() error {
	path := c.ConfigFileUsed()
	if path == "" {
		return fmt.Errorf("%w: no config file loaded", ErrConfigNotFound)
	}
	return c.WriteConfigAs(path)
}

// WriteConfigAs serializes the fully merged configuration to path, choosing
// the format by file extension. The write is atomic: the data lands in a
// temp file in the target directory and is renamed into place, so a crashed
// write never leaves a truncated config behind.
func (c *Config) WriteConfigAs(path string) error {
	parser, err := ParserForExtension(filepath.Ext(path))
	if err != nil {
		return err
	}

	root, ok := c.resolve(nil)
	if !ok {
		root = ObjectValue(map[string]Value{})
	}
	data, err := parser.Serialize(root)
	if err != nil {
		return err
	}

	c.mu.RLock()
	fs := c.fs
	c.mu.RUnlock()
	return atomicWriteFile(fs, path, data)
}

// SafeWriteConfig writes the merged configuration to the location discovery
// would use: the explicit config file if one was set, otherwise the first
// config path joined with the config name and type. It refuses to overwrite
// an existing file.
func (c *Config) SafeWriteConfig() error {
	c.mu.RLock()
	path := c.configFile
	name := c.configName
	configType := c.configType
	paths := c.configPaths
	c.mu.RUnlock()

	if path == "" {
		if name == "" || configType == "" {
			return fmt.Errorf("%w: no config file, name, or type set", ErrConfigNotFound)
		}
		dir := "."
		if len(paths) > 0 {
			dir = paths[0]
		}
		path = filepath.Join(dir, name+"."+configType)
	}
	return c.SafeWriteConfigAs(path)
}

// SafeWriteConfigAs is WriteConfigAs but refuses to overwrite an existing
// file.
func (c *Config) SafeWriteConfigAs(path string) error {
	c.mu.RLock()
	fs := c.fs
	c.mu.RUnlock()

	if exists, _ := afero.Exists(fs, path); exists {
		return fmt.Errorf("config file %q already exists", path)
	}
	return c.WriteConfigAs(path)
}

// atomicWriteFile writes data via a same-directory temp file, fsync, chmod,
// and rename.
func atomicWriteFile(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer fs.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := fs.Chmod(tmpPath, os.FileMode(0644)); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temporary file: %w", err)
	}
	return nil
}
