// FILE: spicex/layer_test.go
package spicex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPath(t *testing.T, key string) Path {
	t.Helper()
	path, err := ParsePath(key, ".")
	require.NoError(t, err)
	return path
}

// TestMapLayerWrites verifies copy-on-write path writes
func TestMapLayerWrites(t *testing.T) {
	t.Run("CreatesIntermediateObjects", func(t *testing.T) {
		l := newMapLayer("test", PriorityDefaults, true)
		require.NoError(t, l.SetPath(mustPath(t, "server.tls.cert"), StringValue("/etc/cert.pem")))

		v, ok := l.Subtree(mustPath(t, "server.tls.cert"))
		require.True(t, ok)
		assert.Equal(t, StringValue("/etc/cert.pem"), v)
	})

	t.Run("ReplacesScalarWithObject", func(t *testing.T) {
		l := newMapLayer("test", PriorityDefaults, true)
		require.NoError(t, l.SetPath(mustPath(t, "server"), StringValue("oops")))
		require.NoError(t, l.SetPath(mustPath(t, "server.port"), IntValue(80)))

		v, ok := l.Subtree(mustPath(t, "server.port"))
		require.True(t, ok)
		assert.Equal(t, IntValue(80), v)
	})

	t.Run("SiblingsSurvive", func(t *testing.T) {
		l := newMapLayer("test", PriorityDefaults, true)
		require.NoError(t, l.SetPath(mustPath(t, "db.host"), StringValue("localhost")))
		require.NoError(t, l.SetPath(mustPath(t, "db.port"), IntValue(5432)))

		v, ok := l.Subtree(mustPath(t, "db.host"))
		require.True(t, ok)
		assert.Equal(t, StringValue("localhost"), v)
	})

	t.Run("ImmutableLayerRejectsWrites", func(t *testing.T) {
		l := newMapLayer("test", PriorityConfigFile, false)
		err := l.SetPath(mustPath(t, "x"), IntValue(1))
		assert.ErrorIs(t, err, ErrImmutableLayer)
	})

	t.Run("EmptyPathRejected", func(t *testing.T) {
		l := newMapLayer("test", PriorityDefaults, true)
		err := l.SetPath(nil, IntValue(1))
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

// TestMapLayerKeys verifies leaf enumeration
func TestMapLayerKeys(t *testing.T) {
	l := newMapLayer("test", PriorityDefaults, true)
	require.NoError(t, l.SetPath(mustPath(t, "a.b"), IntValue(1)))
	require.NoError(t, l.SetPath(mustPath(t, "a.c"), IntValue(2)))
	require.NoError(t, l.SetPath(mustPath(t, "d"), IntValue(3)))

	keys := l.Keys()
	formatted := make(map[string]bool, len(keys))
	for _, p := range keys {
		formatted[p.Format(".")] = true
	}
	assert.Equal(t, map[string]bool{"a.b": true, "a.c": true, "d": true}, formatted)
}

// TestMapLayerConcurrency races reads against whole-tree swaps. Run with
// -race to exercise the atomic publication path.
func TestMapLayerConcurrency(t *testing.T) {
	l := newMapLayer("test", PriorityConfigFile, false)
	l.replace(ObjectValue(map[string]Value{
		"host": StringValue("a"),
		"port": IntValue(1),
	}))

	stop := make(chan struct{})
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			l.replace(ObjectValue(map[string]Value{
				"host": StringValue("b"),
				"port": IntValue(int64(i)),
			}))
		}
	}()

	hostPath := mustPath(t, "host")
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for j := 0; j < 1000; j++ {
				if v, ok := l.Subtree(hostPath); ok {
					s, _ := v.AsString()
					assert.Contains(t, []string{"a", "b"}, s)
				}
			}
		}()
	}

	readers.Wait()
	close(stop)
	writer.Wait()
}

// TestPriorityString covers the diagnostic names
func TestPriorityString(t *testing.T) {
	assert.Equal(t, "explicit", PriorityExplicit.String())
	assert.Equal(t, "defaults", PriorityDefaults.String())
	assert.Equal(t, "unknown", Priority(99).String())
}
