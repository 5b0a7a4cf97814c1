// FILE: spicex/flag_test.go
package spicex

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedFlagSet(t *testing.T, define func(*pflag.FlagSet), args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	define(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

// TestFlagLayerChangedOnly verifies untouched flags contribute nothing
func TestFlagLayerChangedOnly(t *testing.T) {
	fs := parsedFlagSet(t, func(fs *pflag.FlagSet) {
		fs.Int("server.port", 8080, "")
		fs.String("server.host", "localhost", "")
	}, "--server.port=9090")

	l := NewFlagLayer(fs)
	assert.Equal(t, PriorityFlags, l.Priority())

	v, ok := l.Subtree(mustPath(t, "server.port"))
	require.True(t, ok)
	assert.Equal(t, IntValue(9090), v)

	_, ok = l.Subtree(mustPath(t, "server.host"))
	assert.False(t, ok, "default flag values do not enter the layer")
}

// TestFlagLayerTypes verifies typed conversion from pflag value types
func TestFlagLayerTypes(t *testing.T) {
	fs := parsedFlagSet(t, func(fs *pflag.FlagSet) {
		fs.Bool("debug", false, "")
		fs.Float64("ratio", 0, "")
		fs.StringSlice("tags", nil, "")
		fs.String("name", "", "")
	}, "--debug", "--ratio=0.25", "--tags=a,b", "--name=svc")

	l := NewFlagLayer(fs)

	v, ok := l.Subtree(mustPath(t, "debug"))
	require.True(t, ok)
	assert.Equal(t, BoolValue(true), v)

	v, ok = l.Subtree(mustPath(t, "ratio"))
	require.True(t, ok)
	assert.Equal(t, FloatValue(0.25), v)

	v, ok = l.Subtree(mustPath(t, "tags"))
	require.True(t, ok)
	elems, isArr := v.AsArray()
	require.True(t, isArr)
	require.Len(t, elems, 2)
	assert.Equal(t, StringValue("a"), elems[0])
	assert.Equal(t, StringValue("b"), elems[1])

	v, ok = l.Subtree(mustPath(t, "name"))
	require.True(t, ok)
	assert.Equal(t, StringValue("svc"), v)
}

// TestFlagLayerBinding verifies flag-to-key mapping
func TestFlagLayerBinding(t *testing.T) {
	fs := parsedFlagSet(t, func(fs *pflag.FlagSet) {
		fs.String("db-host", "", "")
	}, "--db-host=db.internal")

	l := NewFlagLayer(fs)
	l.Bind("db-host", "database.host")
	l.Rebuild()

	v, ok := l.Subtree(mustPath(t, "database.host"))
	require.True(t, ok)
	assert.Equal(t, StringValue("db.internal"), v)
}

// TestFlagLayerPrecedence verifies flags beat env and files
func TestFlagLayerPrecedence(t *testing.T) {
	t.Setenv("MYAPP_PORT", "7000")

	fs := parsedFlagSet(t, func(fs *pflag.FlagSet) {
		fs.Int("port", 0, "")
	}, "--port=6000")

	cfg := New()
	require.NoError(t, cfg.SetDefault("port", 8080))
	cfg.AddLayer(fileLayerFromMap(t, "file", map[string]any{"port": 9090}))
	cfg.AddLayer(NewEnvLayer("MYAPP", false))
	cfg.AddLayer(NewFlagLayer(fs))

	port, err := cfg.GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 6000, port)

	t.Run("ExplicitStillWins", func(t *testing.T) {
		require.NoError(t, cfg.Set("port", 5000))
		port, err := cfg.GetInt("port")
		require.NoError(t, err)
		assert.Equal(t, 5000, port)
	})
}
