// FILE: spicex/builder.go

package spicex

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

// ValidatorFunc validates a fully assembled Config. It receives the built
// instance and returns an error to abort the build.
type ValidatorFunc func(c *Config) error

// Builder assembles a layered Config fluently. Layers are added in the
// order the With methods are called; within one priority rank a later
// addition wins.
type Builder struct {
	cfg        *Config
	err        error
	validators []ValidatorFunc

	defaultsKV     map[string]any
	defaultsStruct any
	structPrefix   string

	files     []string
	envPrefix string
	envSet    bool
	flags     *pflag.FlagSet
	bindings  map[string]string
	remotes   []RemoteProvider
}

// NewBuilder creates a configuration builder.
func NewBuilder() *Builder {
	return &Builder{
		cfg:        New(),
		defaultsKV: make(map[string]any),
		bindings:   make(map[string]string),
	}
}

// WithDelimiter sets the key delimiter for the built Config.
func (b *Builder) WithDelimiter(delimiter string) *Builder {
	b.cfg.SetKeyDelimiter(delimiter)
	return b
}

// WithFs sets the filesystem used for file layers and config writing.
func (b *Builder) WithFs(fs afero.Fs) *Builder {
	b.cfg.SetFs(fs)
	return b
}

// WithDefault registers a single default value.
func (b *Builder) WithDefault(key string, value any) *Builder {
	b.defaultsKV[key] = value
	return b
}

// WithDefaults registers defaults from a struct, using "mapstructure" tags
// for key names.
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaultsStruct = defaults
	return b
}

// WithPrefix sets the key prefix for struct-derived defaults.
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.structPrefix = prefix
	return b
}

// WithFile adds a configuration file layer. May be called multiple times;
// later files win within the file rank.
func (b *Builder) WithFile(path string) *Builder {
	b.files = append(b.files, path)
	return b
}

// WithEnvPrefix adds an environment layer matching PREFIX_* variables.
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	b.envSet = true
	return b
}

// WithFlags adds a command-line flag layer. Call after the flag set has
// been parsed. Only flags explicitly set on the command line contribute.
func (b *Builder) WithFlags(fs *pflag.FlagSet) *Builder {
	b.flags = fs
	return b
}

// BindFlag maps a flag name to a configuration key for the layer added by
// WithFlags. Unbound flags map to their own name.
func (b *Builder) BindFlag(flagName, key string) *Builder {
	b.bindings[flagName] = key
	return b
}

// WithRemote adds a remote key/value provider layer.
func (b *Builder) WithRemote(provider RemoteProvider) *Builder {
	b.remotes = append(b.remotes, provider)
	return b
}

// WithLayer adds an arbitrary layer, for adapters implemented outside this
// package.
func (b *Builder) WithLayer(l Layer) *Builder {
	b.cfg.AddLayer(l)
	return b
}

// WithValidator adds a validation function run at the end of Build.
// Validators execute in the order added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build assembles the Config. A missing config file surfaces as
// ErrConfigNotFound; parse failures and validator errors abort the build.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.defaultsStruct != nil {
		if err := b.cfg.SetStructDefaults(b.structPrefix, b.defaultsStruct); err != nil {
			return nil, fmt.Errorf("registering struct defaults: %w", err)
		}
	}
	for key, value := range b.defaultsKV {
		if err := b.cfg.SetDefault(key, value); err != nil {
			return nil, fmt.Errorf("registering default %q: %w", key, err)
		}
	}

	for _, path := range b.files {
		if exists, _ := afero.Exists(b.cfg.fs, path); !exists {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		layer, err := NewFileLayerFS(b.cfg.fs, path)
		if err != nil {
			return nil, err
		}
		b.cfg.AddLayer(layer)
	}

	if b.envSet {
		b.cfg.AddLayer(NewEnvLayer(b.envPrefix, true))
	}

	if b.flags != nil {
		layer := NewFlagLayer(b.flags)
		for flagName, key := range b.bindings {
			layer.Bind(flagName, key)
		}
		layer.Rebuild()
		b.cfg.AddLayer(layer)
	}

	for _, provider := range b.remotes {
		layer, err := NewRemoteLayer(provider)
		if err != nil {
			return nil, err
		}
		b.cfg.AddLayer(layer)
	}

	for _, validator := range b.validators {
		if err := validator(b.cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return b.cfg, nil
}

// MustBuild is Build but panics on any error except a missing config file.
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	if cfg == nil {
		cfg = b.cfg
	}
	return cfg
}

// BuildAndDecode builds the Config and unmarshals the merged result into
// target.
func (b *Builder) BuildAndDecode(target any) error {
	cfg, err := b.Build()
	if err != nil {
		return err
	}
	return cfg.Unmarshal(target)
}
