// FILE: spicex/convenience.go

package spicex

import (
	"fmt"
	"strings"
)

// Quick assembles a Config with the standard precedence in a single call:
// struct defaults, an optional config file, and PREFIX_* environment
// variables. This covers most applications; reach for Builder when flags,
// remote providers, or validators are needed.
func Quick(structDefaults any, envPrefix, configFile string) (*Config, error) {
	b := NewBuilder()
	if structDefaults != nil {
		b.WithDefaults(structDefaults)
	}
	if configFile != "" {
		b.WithFile(configFile)
	}
	if envPrefix != "" {
		b.WithEnvPrefix(envPrefix)
	}
	return b.Build()
}

// MustQuick is Quick but panics on error.
func MustQuick(structDefaults any, envPrefix, configFile string) *Config {
	cfg, err := Quick(structDefaults, envPrefix, configFile)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}

// Validate reports an error naming every required key with no value in any
// layer.
func (c *Config) Validate(required ...string) error {
	var missing []string
	for _, key := range required {
		if !c.IsSet(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Debug returns a formatted dump of the layer stack and every leaf value
// with the layer that supplies its effective value. Diagnostic only; the
// output format is not stable.
func (c *Config) Debug() string {
	var b strings.Builder
	b.WriteString("Configuration debug info:\n")
	b.WriteString("Layers (most overridable first):\n")
	for _, info := range c.LayerInfo() {
		b.WriteString("  " + info + "\n")
	}

	delimiter := c.KeyDelimiter()
	b.WriteString("Values:\n")
	for _, key := range c.AllKeys() {
		v, ok := c.Get(key)
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s = %s (from %s)\n", key, v, c.valueOrigin(key, delimiter)))
	}
	return b.String()
}

// valueOrigin names the highest-precedence layer providing a value at key.
func (c *Config) valueOrigin(key, delimiter string) string {
	path, err := ParsePath(key, delimiter)
	if err != nil {
		return "unknown"
	}
	layers := c.orderedLayers()
	// orderedLayers is most overridable first; walk it backwards.
	for i := len(layers) - 1; i >= 0; i-- {
		if _, ok := layers[i].Subtree(path); ok {
			return layers[i].Name()
		}
	}
	return "unknown"
}

// Clone creates an independent Config seeded with a frozen snapshot of the
// merged state. Mutating the clone never affects the original or its
// sources.
func (c *Config) Clone() *Config {
	clone := New()
	clone.delimiter = c.KeyDelimiter()

	root, ok := c.resolve(nil)
	if !ok {
		return clone
	}
	layer := newMapLayer("snapshot", PriorityDefaults, false)
	layer.replace(root)
	clone.AddLayer(layer)
	return clone
}

// KeysWithPrefix returns the sorted leaf keys beneath prefix.
func (c *Config) KeysWithPrefix(prefix string) []string {
	delimiter := c.KeyDelimiter()
	full := prefix
	if full != "" && !strings.HasSuffix(full, delimiter) {
		full += delimiter
	}
	var keys []string
	for _, key := range c.AllKeys() {
		if strings.HasPrefix(key, full) {
			keys = append(keys, key)
		}
	}
	return keys
}
