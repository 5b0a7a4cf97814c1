// FILE: spicex/builder_test.go
package spicex

import (
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appDefaults struct {
	Server struct {
		Host    string        `mapstructure:"host"`
		Port    int           `mapstructure:"port"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"server"`
	Debug bool `mapstructure:"debug"`
}

func testDefaults() appDefaults {
	d := appDefaults{}
	d.Server.Host = "localhost"
	d.Server.Port = 8080
	d.Server.Timeout = 30 * time.Second
	return d
}

// TestBuilderFullStack assembles every layer kind and checks precedence
// end to end
func TestBuilderFullStack(t *testing.T) {
	t.Setenv("MYAPP_SERVER_PORT", "7000")
	t.Setenv("MYAPP_DEBUG", "true")

	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/config.yaml", "server:\n  host: from-file\n  port: 9090\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("server.port", 0, "")
	require.NoError(t, flags.Parse([]string{"--server.port=6000"}))

	provider := &fakeProvider{
		name:   "kv:app",
		format: "json",
		data:   []byte(`{"server": {"region": "eu-west"}}`),
	}

	cfg, err := NewBuilder().
		WithFs(fs).
		WithDefaults(testDefaults()).
		WithFile("/config.yaml").
		WithEnvPrefix("MYAPP").
		WithFlags(flags).
		WithRemote(provider).
		Build()
	require.NoError(t, err)

	t.Run("FlagBeatsEnvFileDefault", func(t *testing.T) {
		port, err := cfg.GetInt("server.port")
		require.NoError(t, err)
		assert.Equal(t, 6000, port)
	})

	t.Run("FileBeatsDefault", func(t *testing.T) {
		host, err := cfg.GetString("server.host")
		require.NoError(t, err)
		assert.Equal(t, "from-file", host)
	})

	t.Run("EnvBeatsDefault", func(t *testing.T) {
		debug, err := cfg.GetBool("debug")
		require.NoError(t, err)
		assert.True(t, debug)
	})

	t.Run("RemoteContributes", func(t *testing.T) {
		region, err := cfg.GetString("server.region")
		require.NoError(t, err)
		assert.Equal(t, "eu-west", region)
	})

	t.Run("DefaultSurvivesWhereUncontested", func(t *testing.T) {
		var out appDefaults
		require.NoError(t, cfg.Unmarshal(&out))
		assert.Equal(t, 30*time.Second, out.Server.Timeout)
	})
}

// TestBuilderStructDefaults verifies struct walking with tags and nesting
func TestBuilderStructDefaults(t *testing.T) {
	cfg, err := NewBuilder().
		WithDefaults(testDefaults()).
		Build()
	require.NoError(t, err)

	host, err := cfg.GetString("server.host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)

	timeout, err := cfg.GetString("server.timeout")
	require.NoError(t, err)
	assert.Equal(t, "30s", timeout)
}

// TestBuilderKVDefaultsAndBindings covers single defaults and flag binding
func TestBuilderKVDefaultsAndBindings(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db-host", "", "")
	require.NoError(t, flags.Parse([]string{"--db-host=db.internal"}))

	cfg, err := NewBuilder().
		WithDefault("database.host", "localhost").
		WithDefault("database.port", 5432).
		WithFlags(flags).
		BindFlag("db-host", "database.host").
		Build()
	require.NoError(t, err)

	host, err := cfg.GetString("database.host")
	require.NoError(t, err)
	assert.Equal(t, "db.internal", host)

	port, err := cfg.GetInt("database.port")
	require.NoError(t, err)
	assert.Equal(t, 5432, port)
}

// TestBuilderValidators verifies validation runs against the merged state
func TestBuilderValidators(t *testing.T) {
	portInRange := func(c *Config) error {
		port, err := c.GetInt("server.port")
		if err != nil {
			return err
		}
		if port < 1024 {
			return fmt.Errorf("port %d is privileged", port)
		}
		return nil
	}

	t.Run("Passes", func(t *testing.T) {
		_, err := NewBuilder().
			WithDefault("server.port", 8080).
			WithValidator(portInRange).
			Build()
		assert.NoError(t, err)
	})

	t.Run("Fails", func(t *testing.T) {
		_, err := NewBuilder().
			WithDefault("server.port", 80).
			WithValidator(portInRange).
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "privileged")
	})
}

// TestBuilderMissingFile verifies the not-found contract
func TestBuilderMissingFile(t *testing.T) {
	_, err := NewBuilder().
		WithFs(afero.NewMemMapFs()).
		WithFile("/absent.yaml").
		Build()
	assert.ErrorIs(t, err, ErrConfigNotFound)

	t.Run("MustBuildTolerates", func(t *testing.T) {
		cfg := NewBuilder().
			WithFs(afero.NewMemMapFs()).
			WithDefault("key", 1).
			WithFile("/absent.yaml").
			MustBuild()
		require.NotNil(t, cfg)
		v, err := cfg.GetInt("key")
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})
}

// TestBuildAndDecode covers the one-shot build-then-unmarshal path
func TestBuildAndDecode(t *testing.T) {
	var out appDefaults
	err := NewBuilder().
		WithDefaults(testDefaults()).
		BuildAndDecode(&out)
	require.NoError(t, err)
	assert.Equal(t, "localhost", out.Server.Host)
	assert.Equal(t, 8080, out.Server.Port)
}

// TestQuick covers the single-call convenience constructor
func TestQuick(t *testing.T) {
	t.Setenv("MYAPP_DEBUG", "true")

	cfg, err := Quick(testDefaults(), "MYAPP", "")
	require.NoError(t, err)

	debug, err := cfg.GetBool("debug")
	require.NoError(t, err)
	assert.True(t, debug)

	host, err := cfg.GetString("server.host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)
}
