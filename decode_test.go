// FILE: spicex/decode_test.go
package spicex

import (
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverConfig struct {
	Host    string        `mapstructure:"host"`
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
	Debug   bool          `mapstructure:"debug"`
	Tags    []string      `mapstructure:"tags"`
}

// TestUnmarshal covers struct decoding of the merged tree
func TestUnmarshal(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.SetDefault("server.host", "localhost"))
	require.NoError(t, cfg.SetDefault("server.port", "8080"))
	require.NoError(t, cfg.SetDefault("server.timeout", "30s"))
	require.NoError(t, cfg.SetDefault("server.debug", "true"))
	require.NoError(t, cfg.SetDefault("server.tags", "a,b,c"))

	t.Run("WholeTree", func(t *testing.T) {
		var out struct {
			Server serverConfig `mapstructure:"server"`
		}
		require.NoError(t, cfg.Unmarshal(&out))
		assert.Equal(t, "localhost", out.Server.Host)
		assert.Equal(t, 8080, out.Server.Port)
		assert.Equal(t, 30*time.Second, out.Server.Timeout)
		assert.True(t, out.Server.Debug)
		assert.Equal(t, []string{"a", "b", "c"}, out.Server.Tags)
	})

	t.Run("SubtreeByKey", func(t *testing.T) {
		var out serverConfig
		require.NoError(t, cfg.UnmarshalKey("server", &out))
		assert.Equal(t, "localhost", out.Host)
		assert.Equal(t, 8080, out.Port)
	})

	t.Run("MissingKeyDecodesEmpty", func(t *testing.T) {
		var out serverConfig
		require.NoError(t, cfg.UnmarshalKey("absent", &out))
		assert.Equal(t, serverConfig{}, out)
	})

	t.Run("NonPointerRejected", func(t *testing.T) {
		var out serverConfig
		assert.Error(t, cfg.Unmarshal(out))
	})
}

// TestUnmarshalNetworkTypes covers the IP, CIDR, and URL hooks
func TestUnmarshalNetworkTypes(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.SetDefault("listen", "192.168.1.10"))
	require.NoError(t, cfg.SetDefault("subnet", "10.0.0.0/8"))
	require.NoError(t, cfg.SetDefault("endpoint", "https://api.example.com/v1"))

	var out struct {
		Listen   net.IP    `mapstructure:"listen"`
		Subnet   net.IPNet `mapstructure:"subnet"`
		Endpoint url.URL   `mapstructure:"endpoint"`
	}
	require.NoError(t, cfg.Unmarshal(&out))
	assert.True(t, out.Listen.Equal(net.ParseIP("192.168.1.10")))
	assert.Equal(t, "10.0.0.0/8", out.Subnet.String())
	assert.Equal(t, "api.example.com", out.Endpoint.Host)

	t.Run("InvalidIP", func(t *testing.T) {
		bad := New()
		require.NoError(t, bad.SetDefault("listen", "not-an-ip"))
		var out struct {
			Listen net.IP `mapstructure:"listen"`
		}
		err := bad.Unmarshal(&out)
		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}

// TestUnmarshalLayered verifies decoding sees the merged precedence result
func TestUnmarshalLayered(t *testing.T) {
	t.Setenv("MYAPP_SERVER_PORT", "7000")

	cfg := New()
	require.NoError(t, cfg.SetDefault("server.host", "localhost"))
	require.NoError(t, cfg.SetDefault("server.port", 8080))
	cfg.AddLayer(NewEnvLayer("MYAPP", false))

	var out struct {
		Server serverConfig `mapstructure:"server"`
	}
	require.NoError(t, cfg.Unmarshal(&out))
	assert.Equal(t, "localhost", out.Server.Host)
	assert.Equal(t, 7000, out.Server.Port)
}
