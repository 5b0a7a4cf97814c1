// FILE: spicex/layer.go
package spicex

import (
	"sync"
	"sync/atomic"
)

// Priority ranks a configuration layer. Lower numerals win on conflict.
// Several layers may share a rank (e.g. multiple config files); within a
// rank the later-registered layer wins.
type Priority uint8

const (
	PriorityExplicit Priority = iota
	PriorityFlags
	PriorityEnvironment
	PriorityConfigFile
	PriorityKeyValue
	PriorityDefaults
)

// String returns a human-readable description of the priority rank.
func (p Priority) String() string {
	switch p {
	case PriorityExplicit:
		return "explicit"
	case PriorityFlags:
		return "flags"
	case PriorityEnvironment:
		return "environment"
	case PriorityConfigFile:
		return "config file"
	case PriorityKeyValue:
		return "key-value store"
	case PriorityDefaults:
		return "defaults"
	default:
		return "unknown"
	}
}

// Layer is one configuration source: an immutable-until-replaced value tree
// with a precedence rank and a diagnostic name. New source kinds implement
// this interface and register with AddLayer; the resolution core never
// inspects adapter internals.
type Layer interface {
	// Name identifies the source in diagnostics and errors.
	Name() string

	// Priority returns the precedence rank of this layer.
	Priority() Priority

	// Subtree returns the exact value at path, or false if absent. The
	// lookup must observe one consistent snapshot of the layer's tree for
	// the whole traversal. Navigating through a scalar is absence, not an
	// error.
	Subtree(path Path) (Value, bool)

	// SetPath writes a value at path, creating intermediate objects as
	// needed. Layers that are not writable return ErrImmutableLayer.
	SetPath(path Path, value Value) error

	// Keys returns the fully-qualified address of every leaf value present
	// in this layer.
	Keys() []Path
}

// mapLayer is the in-memory tree shared by every built-in source adapter.
// The root is published through an atomic pointer: readers take one snapshot
// per lookup and never observe a partially replaced tree. Writable layers
// (explicit, defaults) rebuild the spine of the tree copy-on-write under a
// mutex and then publish the new root with a single swap.
type mapLayer struct {
	name     string
	priority Priority
	writable bool

	mu   sync.Mutex // serializes SetPath against itself and replace
	root atomic.Pointer[Value]
}

func newMapLayer(name string, priority Priority, writable bool) *mapLayer {
	l := &mapLayer{name: name, priority: priority, writable: writable}
	root := ObjectValue(nil)
	l.root.Store(&root)
	return l
}

func (l *mapLayer) Name() string       { return l.name }
func (l *mapLayer) Priority() Priority { return l.priority }

func (l *mapLayer) Subtree(path Path) (Value, bool) {
	root := l.root.Load()
	return descend(*root, path)
}

func (l *mapLayer) SetPath(path Path, value Value) error {
	if !l.writable {
		return ErrImmutableLayer
	}
	if len(path) == 0 {
		return ErrInvalidKey
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	newRoot := setAt(*l.root.Load(), path, value)
	l.root.Store(&newRoot)
	return nil
}

func (l *mapLayer) Keys() []Path {
	return collectLeafPaths(*l.root.Load())
}

// replace swaps the whole tree in one atomic store. Used by adapters that
// load their content from an external source.
func (l *mapLayer) replace(root Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root.Store(&root)
}

// snapshot returns the current root.
func (l *mapLayer) snapshot() Value {
	return *l.root.Load()
}

// has reports whether this specific layer holds a value at path, without
// consulting any other layer.
func (l *mapLayer) has(path Path) bool {
	_, ok := l.Subtree(path)
	return ok
}

// setAt returns a tree equal to v with value written at path. Only the nodes
// along the path are copied; untouched siblings share structure with the old
// tree. Non-object nodes along the path, including numeric segments, are
// replaced by fresh objects.
func setAt(v Value, path Path, value Value) Value {
	if len(path) == 0 {
		return value
	}
	fields := make(map[string]Value)
	if obj, ok := v.AsObject(); ok {
		for k, e := range obj {
			fields[k] = e
		}
	}
	seg := path[0]
	fields[seg.Literal] = setAt(fields[seg.Literal], path[1:], value)
	return ObjectValue(fields)
}
