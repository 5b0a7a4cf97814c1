// FILE: spicex/remote.go
package spicex

import (
	"fmt"
)

// RemoteProvider is the interface slot for remote key/value stores (etcd,
// Consul, a ConfigMap sidecar, ...). The engine never implements a store; it
// only consumes one payload at a time through this contract.
type RemoteProvider interface {
	// Name identifies the provider in diagnostics ("etcd://host/app", ...).
	Name() string

	// Format returns the payload format as a file extension ("json",
	// "yaml", ...) used to pick a registered parser.
	Format() string

	// Read fetches the current raw payload.
	Read() ([]byte, error)
}

// RemoteLayer adapts a RemoteProvider into a layer at key-value rank. Like
// file layers, its tree is replaced wholesale: Reload fetches, parses, and
// atomically swaps, keeping the previous tree on any failure.
type RemoteLayer struct {
	*mapLayer
	provider RemoteProvider
	parser   Parser
}

// NewRemoteLayer fetches the provider's payload and builds the layer.
func NewRemoteLayer(provider RemoteProvider) (*RemoteLayer, error) {
	parser, err := ParserForExtension(provider.Format())
	if err != nil {
		return nil, err
	}
	l := &RemoteLayer{
		mapLayer: newMapLayer(provider.Name(), PriorityKeyValue, false),
		provider: provider,
		parser:   parser,
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload refetches the payload and swaps in the new tree on success. On
// failure the previous tree stays in effect.
func (l *RemoteLayer) Reload() error {
	data, err := l.provider.Read()
	if err != nil {
		return fmt.Errorf("reading from %s: %w", l.provider.Name(), err)
	}
	root, err := l.parser.Parse(data)
	if err != nil {
		return newParseError(l.provider.Name(), err)
	}
	l.replace(root)
	return nil
}
