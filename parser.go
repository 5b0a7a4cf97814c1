// FILE: spicex/parser.go
package spicex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Parser converts between configuration text and value trees. Implementations
// return plain errors from Parse; the layer that invoked the parser wraps
// them into a ParseError carrying the source name (file path, provider name).
type Parser interface {
	// Name identifies the format ("json", "yaml", ...).
	Name() string

	// Extensions lists the file extensions (without the dot) this parser
	// handles, used by format auto-detection.
	Extensions() []string

	// Parse converts text into a value tree.
	Parse(data []byte) (Value, error)

	// Serialize renders a value tree as text. Trees the format cannot
	// represent produce a SerializationError.
	Serialize(v Value) ([]byte, error)
}

var (
	parserMu  sync.RWMutex
	parserReg = map[string]Parser{}
)

func init() {
	for _, p := range []Parser{jsonParser{}, yamlParser{}, tomlParser{}, iniParser{}} {
		RegisterParser(p)
	}
}

// RegisterParser adds a parser to the format registry, keyed by its
// extensions. Registering a parser for an already-claimed extension replaces
// the previous association.
func RegisterParser(p Parser) {
	parserMu.Lock()
	defer parserMu.Unlock()
	for _, ext := range p.Extensions() {
		parserReg[strings.ToLower(ext)] = p
	}
}

// ParserForExtension returns the parser registered for the given extension
// (with or without a leading dot), or ErrUnsupportedFormat.
func ParserForExtension(ext string) (Parser, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	parserMu.RLock()
	p, ok := parserReg[ext]
	parserMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return p, nil
}

// SupportedExtensions returns every registered extension, sorted.
func SupportedExtensions() []string {
	parserMu.RLock()
	defer parserMu.RUnlock()
	exts := make([]string, 0, len(parserReg))
	for ext := range parserReg {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// sniffParser attempts content-based format detection for files without a
// usable extension. JSON is tried first (strictest), then YAML, then TOML.
func sniffParser(data []byte) (Parser, bool) {
	for _, name := range []string{"json", "yaml", "toml"} {
		p, err := ParserForExtension(name)
		if err != nil {
			continue
		}
		if _, err := p.Parse(data); err == nil {
			return p, true
		}
	}
	return nil, false
}

// jsonParser uses encoding/json with UseNumber so integer and float values
// keep their identity through a parse/serialize round trip.
type jsonParser struct{}

func (jsonParser) Name() string         { return "json" }
func (jsonParser) Extensions() []string { return []string{"json"} }

func (jsonParser) Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	return fromGoValue(raw)
}

func (jsonParser) Serialize(v Value) ([]byte, error) {
	out, err := json.MarshalIndent(v.Interface(), "", "  ")
	if err != nil {
		return nil, &SerializationError{Format: "json", Message: err.Error(), Err: err}
	}
	return append(out, '\n'), nil
}

type yamlParser struct{}

func (yamlParser) Name() string         { return "yaml" }
func (yamlParser) Extensions() []string { return []string{"yaml", "yml"} }

func (yamlParser) Parse(data []byte) (Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Value{}, err
	}
	return fromGoValue(raw)
}

func (yamlParser) Serialize(v Value) ([]byte, error) {
	out, err := yaml.Marshal(v.Interface())
	if err != nil {
		return nil, &SerializationError{Format: "yaml", Message: err.Error(), Err: err}
	}
	return out, nil
}

type tomlParser struct{}

func (tomlParser) Name() string         { return "toml" }
func (tomlParser) Extensions() []string { return []string{"toml", "tml"} }

func (tomlParser) Parse(data []byte) (Value, error) {
	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Value{}, err
	}
	return fromGoValue(raw)
}

func (tomlParser) Serialize(v Value) ([]byte, error) {
	if _, ok := v.AsObject(); !ok {
		return nil, &SerializationError{Format: "toml", Message: "top-level value must be an object"}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v.Interface()); err != nil {
		return nil, &SerializationError{Format: "toml", Message: err.Error(), Err: err}
	}
	return buf.Bytes(), nil
}

// iniParser maps INI sections to one level of object nesting: keys in the
// default section become top-level values, and each named section becomes a
// top-level object. All INI values parse as strings; typed getters coerce on
// read. Serialization of arrays or objects nested deeper than one section
// level fails, since the format cannot represent them.
type iniParser struct{}

func (iniParser) Name() string         { return "ini" }
func (iniParser) Extensions() []string { return []string{"ini"} }

func (iniParser) Parse(data []byte) (Value, error) {
	f, err := ini.Load(data)
	if err != nil {
		return Value{}, err
	}
	fields := make(map[string]Value)
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			for _, k := range sec.Keys() {
				fields[k.Name()] = StringValue(k.Value())
			}
			continue
		}
		nested := make(map[string]Value, len(sec.Keys()))
		for _, k := range sec.Keys() {
			nested[k.Name()] = StringValue(k.Value())
		}
		fields[sec.Name()] = ObjectValue(nested)
	}
	return ObjectValue(fields), nil
}

func (iniParser) Serialize(v Value) ([]byte, error) {
	obj, ok := v.AsObject()
	if !ok {
		return nil, &SerializationError{Format: "ini", Message: "top-level value must be an object"}
	}
	f := ini.Empty()

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		child := obj[k]
		if nested, ok := child.AsObject(); ok {
			sec, err := f.NewSection(k)
			if err != nil {
				return nil, &SerializationError{Format: "ini", Message: err.Error(), Err: err}
			}
			nkeys := make([]string, 0, len(nested))
			for nk := range nested {
				nkeys = append(nkeys, nk)
			}
			sort.Strings(nkeys)
			for _, nk := range nkeys {
				s, ok := nested[nk].AsString()
				if !ok {
					return nil, &SerializationError{
						Format:  "ini",
						Message: fmt.Sprintf("value at %s.%s is too deeply nested for INI", k, nk),
					}
				}
				if _, err := sec.NewKey(nk, s); err != nil {
					return nil, &SerializationError{Format: "ini", Message: err.Error(), Err: err}
				}
			}
			continue
		}
		s, ok := child.AsString()
		if !ok {
			return nil, &SerializationError{
				Format:  "ini",
				Message: fmt.Sprintf("value at %s cannot be represented in INI", k),
			}
		}
		if _, err := f.Section("").NewKey(k, s); err != nil {
			return nil, &SerializationError{Format: "ini", Message: err.Error(), Err: err}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, &SerializationError{Format: "ini", Message: err.Error(), Err: err}
	}
	return buf.Bytes(), nil
}
