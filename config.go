// FILE: spicex/config.go

package spicex

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/afero"
)

// Config is an ordered stack of configuration layers. Reads deep-merge the
// layers in precedence order; writes go to the explicit layer (Set) or the
// defaults layer (SetDefault). A Config is safe for concurrent use: lookups
// never block on I/O and never observe a half-replaced layer tree.
type Config struct {
	mu        sync.RWMutex
	layers    []Layer
	delimiter string
	tagName   string

	explicit *mapLayer
	defaults *mapLayer

	fs afero.Fs

	// file discovery state, see discovery.go
	configName  string
	configType  string
	configPaths []string
	configFile  string
	fileLayer   *FileLayer

	// reload coordination, see watch.go
	watcher  *watcher
	onChange []func(ChangeEvent)
	onError  []func(error)
}

// New creates an empty Config with the default "." key delimiter.
func New() *Config {
	return &Config{
		delimiter: DefaultDelimiter,
		tagName:   "mapstructure",
		fs:        afero.NewOsFs(),
	}
}

// SetKeyDelimiter changes the delimiter used to split nested keys. Call it
// before adding layers or setting values; keys already written with the old
// delimiter are not re-split.
func (c *Config) SetKeyDelimiter(delimiter string) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	c.mu.Lock()
	c.delimiter = delimiter
	c.mu.Unlock()
}

// KeyDelimiter returns the current key delimiter.
func (c *Config) KeyDelimiter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.delimiter
}

// SetFs replaces the filesystem used by config file discovery and writing.
// Intended for tests and embedded setups.
func (c *Config) SetFs(fs afero.Fs) {
	c.mu.Lock()
	c.fs = fs
	c.mu.Unlock()
}

// AddLayer registers a configuration source. Registration is a build-time
// operation: it briefly excludes concurrent lookups, unlike steady-state
// reloads which only swap a layer's internal tree. Within one priority rank
// the later-registered layer wins.
func (c *Config) AddLayer(l Layer) {
	c.mu.Lock()
	c.layers = append(c.layers, l)
	c.mu.Unlock()
}

// LayerCount returns the number of registered layers.
func (c *Config) LayerCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.layers)
}

// LayerInfo returns "name (priority)" for each registered layer in
// resolution order, most overridable first. Diagnostic only.
func (c *Config) LayerInfo() []string {
	layers := c.orderedLayers()
	out := make([]string, len(layers))
	for i, l := range layers {
		out[i] = fmt.Sprintf("%s (%s)", l.Name(), l.Priority())
	}
	return out
}

// orderedLayers returns a snapshot of the layer list sorted most overridable
// first: descending priority numeral, registration order within a rank. Each
// resolve works from one such snapshot, so layer registration never tears an
// in-flight lookup.
func (c *Config) orderedLayers() []Layer {
	c.mu.RLock()
	layers := make([]Layer, len(c.layers))
	copy(layers, c.layers)
	c.mu.RUnlock()

	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].Priority() > layers[j].Priority()
	})
	return layers
}

// Get resolves the effective value at key across all layers. Objects
// supplied by several layers deep-merge, higher precedence winning per leaf;
// scalars and arrays from a higher-precedence layer shadow lower ones
// wholesale. A malformed key resolves to absence.
func (c *Config) Get(key string) (Value, bool) {
	path, err := ParsePath(key, c.KeyDelimiter())
	if err != nil {
		return Value{}, false
	}
	return c.resolve(path)
}

// resolve runs the precedence-ordered merge for one address. Each layer's
// tree is read exactly once, so a concurrent whole-tree swap is either fully
// visible or fully invisible to this call.
func (c *Config) resolve(path Path) (Value, bool) {
	var candidate Value
	found := false
	for _, l := range c.orderedLayers() {
		v, ok := l.Subtree(path)
		if !ok {
			continue
		}
		if !found {
			candidate = v
			found = true
			continue
		}
		candidate = mergeValues(candidate, v)
	}
	return candidate, found
}

// mergeValues combines a lower-precedence candidate with a higher-precedence
// value. Two objects merge key-wise recursively; any other pairing is a
// wholesale replacement by the higher value. Untouched subtrees are shared,
// not copied.
func mergeValues(lower, higher Value) Value {
	lobj, lok := lower.AsObject()
	hobj, hok := higher.AsObject()
	if !lok || !hok {
		return higher
	}
	merged := make(map[string]Value, len(lobj)+len(hobj))
	for k, v := range lobj {
		merged[k] = v
	}
	for k, hv := range hobj {
		if lv, ok := merged[k]; ok {
			merged[k] = mergeValues(lv, hv)
		} else {
			merged[k] = hv
		}
	}
	return ObjectValue(merged)
}

// Set writes a value at the highest precedence, overriding every other
// source immediately and unconditionally.
func (c *Config) Set(key string, value any) error {
	path, err := ParsePath(key, c.KeyDelimiter())
	if err != nil {
		return err
	}
	v, err := fromGoValue(value)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return c.explicitLayer().SetPath(path, v)
}

// SetDefault writes a value at the lowest precedence, used only when no
// other source provides the key. It is non-destructive: a default already
// present in the defaults layer is never overwritten by a later SetDefault.
func (c *Config) SetDefault(key string, value any) error {
	path, err := ParsePath(key, c.KeyDelimiter())
	if err != nil {
		return err
	}
	v, err := fromGoValue(value)
	if err != nil {
		return fmt.Errorf("setting default %q: %w", key, err)
	}
	defaults := c.defaultsLayer()
	if defaults.has(path) {
		return nil
	}
	return defaults.SetPath(path, v)
}

func (c *Config) explicitLayer() *mapLayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.explicit == nil {
		c.explicit = newMapLayer("explicit", PriorityExplicit, true)
		c.layers = append(c.layers, c.explicit)
	}
	return c.explicit
}

func (c *Config) defaultsLayer() *mapLayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.defaults == nil {
		c.defaults = newMapLayer("defaults", PriorityDefaults, true)
		c.layers = append(c.layers, c.defaults)
	}
	return c.defaults
}

// IsSet reports whether any layer provides a value at key.
func (c *Config) IsSet(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Sub returns a new Config rooted at the object resolved at key, enabling
// relative addressing into a subtree. The subtree is a frozen snapshot of
// the merged state at call time, not a live view of the original sources.
func (c *Config) Sub(key string) (*Config, bool) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	if _, isObj := v.AsObject(); !isObj {
		return nil, false
	}
	sub := New()
	sub.delimiter = c.KeyDelimiter()
	layer := newMapLayer("sub:"+key, PriorityDefaults, false)
	layer.replace(v)
	sub.AddLayer(layer)
	return sub, true
}

// AllKeys returns the fully-qualified address of every leaf value visible in
// any layer, sorted.
func (c *Config) AllKeys() []string {
	delimiter := c.KeyDelimiter()
	seen := make(map[string]struct{})
	for _, l := range c.orderedLayers() {
		for _, p := range l.Keys() {
			seen[p.Format(delimiter)] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AllSettings exports the fully merged configuration as a plain Go tree.
func (c *Config) AllSettings() map[string]any {
	root, ok := c.resolve(nil)
	if !ok {
		return map[string]any{}
	}
	m, ok := root.Interface().(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}
