// FILE: spicex/env.go
package spicex

import (
	"os"
	"strings"
)

// EnvLayer exposes process environment variables as a configuration layer at
// environment rank. Variable names are normalized at this boundary: the
// prefix is stripped, the rest is lower-cased, and underscores become key
// delimiters, so APP_DATABASE_HOST surfaces as database.host. The core never
// re-normalizes; every key this layer publishes is already canonical.
//
// The environment is captured once at construction (and again on Refresh),
// matching the whole-tree snapshot discipline of the other layers.
type EnvLayer struct {
	*mapLayer
	prefix    string
	delimiter string
	automatic bool
	replacer  func(string) string
}

// NewEnvLayer builds an environment layer. With a non-empty prefix only
// variables named PREFIX_* are captured. With automatic set and no prefix,
// every variable is captured — a wide net, mostly useful in containers where
// the environment is curated.
func NewEnvLayer(prefix string, automatic bool) *EnvLayer {
	l := &EnvLayer{
		mapLayer:  newMapLayer("env:"+prefix, PriorityEnvironment, false),
		prefix:    strings.ToUpper(strings.TrimSuffix(prefix, "_")),
		delimiter: DefaultDelimiter,
		automatic: automatic,
	}
	l.Refresh()
	return l
}

// SetKeyDelimiter changes the delimiter used when converting underscored
// variable names into nested keys, then recaptures the environment.
func (l *EnvLayer) SetKeyDelimiter(delimiter string) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	l.delimiter = delimiter
	l.Refresh()
}

// SetKeyReplacer installs a custom transformation applied to each variable
// name (after prefix stripping, before normalization), then recaptures the
// environment.
func (l *EnvLayer) SetKeyReplacer(fn func(string) string) {
	l.replacer = fn
	l.Refresh()
}

// Refresh recaptures the process environment and swaps in the new tree.
func (l *EnvLayer) Refresh() {
	root := ObjectValue(nil)
	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		key, ok := l.keyFor(name)
		if !ok {
			continue
		}
		path, err := ParsePath(key, l.delimiter)
		if err != nil {
			continue
		}
		root = setAt(root, path, StringValue(value))
	}
	l.replace(root)
}

// keyFor maps a raw variable name to a normalized configuration key, or
// reports false when the variable is outside this layer's scope.
func (l *EnvLayer) keyFor(name string) (string, bool) {
	if l.prefix != "" {
		rest, found := strings.CutPrefix(name, l.prefix+"_")
		if !found {
			return "", false
		}
		name = rest
	} else if !l.automatic {
		return "", false
	}
	if l.replacer != nil {
		name = l.replacer(name)
	}
	return strings.ReplaceAll(strings.ToLower(name), "_", l.delimiter), true
}
