// FILE: spicex/file.go
package spicex

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileLayer loads one configuration file into a layer at config-file rank.
// The parsed tree is published through a single atomic swap, so a Reload
// racing concurrent reads exposes either the complete old tree or the
// complete new one, never a mix.
type FileLayer struct {
	*mapLayer
	fs     afero.Fs
	path   string
	parser Parser
}

// NewFileLayer reads and parses path from the OS filesystem, selecting the
// parser by file extension (content sniffing as a fallback for extension-less
// files).
func NewFileLayer(path string) (*FileLayer, error) {
	return NewFileLayerFS(afero.NewOsFs(), path)
}

// NewFileLayerFS is NewFileLayer against an arbitrary afero filesystem.
func NewFileLayerFS(fs afero.Fs, path string) (*FileLayer, error) {
	return newFileLayer(fs, path, nil)
}

// NewFileLayerWithParser reads and parses path with an explicit parser,
// bypassing extension detection.
func NewFileLayerWithParser(path string, parser Parser) (*FileLayer, error) {
	return newFileLayer(afero.NewOsFs(), path, parser)
}

func newFileLayer(fs afero.Fs, path string, parser Parser) (*FileLayer, error) {
	l := &FileLayer{
		mapLayer: newMapLayer(path, PriorityConfigFile, false),
		fs:       fs,
		path:     path,
		parser:   parser,
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the file path backing this layer.
func (l *FileLayer) Path() string { return l.path }

// Reload rereads and reparses the file, swapping in the new tree on success.
// On any failure the previously loaded tree stays in effect and the error
// is returned for the caller (typically the reload coordinator) to report.
func (l *FileLayer) Reload() error {
	data, err := afero.ReadFile(l.fs, l.path)
	if err != nil {
		return fmt.Errorf("reading config file %q: %w", l.path, err)
	}

	parser := l.parser
	if parser == nil {
		parser, err = ParserForExtension(filepath.Ext(l.path))
		if err != nil {
			sniffed, ok := sniffParser(data)
			if !ok {
				return fmt.Errorf("%w: cannot determine format of %q", ErrUnsupportedFormat, l.path)
			}
			parser = sniffed
		}
		l.parser = parser
	}

	root, err := parser.Parse(data)
	if err != nil {
		return newParseError(l.path, err)
	}
	l.replace(root)
	return nil
}
