// FILE: spicex/flag.go
package spicex

import (
	"strings"

	"github.com/spf13/pflag"
)

// FlagLayer exposes a parsed pflag.FlagSet as a configuration layer at flags
// rank. Only flags the user actually set on the command line contribute
// values; flag defaults are left to the defaults layer so that files and
// environment variables are not shadowed by values nobody typed.
//
// By default a flag named "database.host" maps to the key database.host.
// Bind overrides that mapping for individual flags.
type FlagLayer struct {
	*mapLayer
	flags     *pflag.FlagSet
	delimiter string
	bindings  map[string]string
}

// NewFlagLayer builds a flag layer over fs. Call Rebuild after fs.Parse if
// the flag set is parsed later than the layer is constructed.
func NewFlagLayer(fs *pflag.FlagSet) *FlagLayer {
	l := &FlagLayer{
		mapLayer:  newMapLayer("flags", PriorityFlags, false),
		flags:     fs,
		delimiter: DefaultDelimiter,
		bindings:  make(map[string]string),
	}
	l.Rebuild()
	return l
}

// Bind maps a flag name to a configuration key, e.g. Bind("db-host",
// "database.host"). Takes effect on the next Rebuild.
func (l *FlagLayer) Bind(flagName, key string) {
	l.bindings[flagName] = key
}

// Rebuild recaptures the changed flags from the flag set and swaps in the
// new tree.
func (l *FlagLayer) Rebuild() {
	root := ObjectValue(nil)
	l.flags.Visit(func(f *pflag.Flag) {
		key, ok := l.bindings[f.Name]
		if !ok {
			key = f.Name
		}
		path, err := ParsePath(key, l.delimiter)
		if err != nil {
			return
		}
		root = setAt(root, path, flagValue(f))
	})
	l.replace(root)
}

// flagValue converts a pflag value to a typed Value using the flag's own
// declared type, falling back to the string form.
func flagValue(f *pflag.Flag) Value {
	switch f.Value.Type() {
	case "bool":
		if b, ok := StringValue(f.Value.String()).AsBool(); ok {
			return BoolValue(b)
		}
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "count":
		if i, ok := StringValue(f.Value.String()).AsInt(); ok {
			return IntValue(i)
		}
	case "float32", "float64":
		if fl, ok := StringValue(f.Value.String()).AsFloat(); ok {
			return FloatValue(fl)
		}
	default:
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			elems := sv.GetSlice()
			vals := make([]Value, len(elems))
			for i, e := range elems {
				vals[i] = StringValue(strings.TrimSpace(e))
			}
			return ArrayValue(vals...)
		}
	}
	return StringValue(f.Value.String())
}
