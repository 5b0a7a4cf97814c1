// FILE: spicex/parser_test.go
package spicex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParserRegistry covers extension lookup and detection
func TestParserRegistry(t *testing.T) {
	t.Run("KnownExtensions", func(t *testing.T) {
		for _, ext := range []string{"json", "yaml", "yml", "toml", "ini", ".json"} {
			p, err := ParserForExtension(ext)
			require.NoError(t, err, "extension %q", ext)
			assert.NotNil(t, p)
		}
	})

	t.Run("UnknownExtension", func(t *testing.T) {
		_, err := ParserForExtension("xml")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("SupportedExtensionsSorted", func(t *testing.T) {
		exts := SupportedExtensions()
		assert.Contains(t, exts, "json")
		assert.Contains(t, exts, "yaml")
		assert.Contains(t, exts, "toml")
		assert.Contains(t, exts, "ini")
	})

	t.Run("SniffJSON", func(t *testing.T) {
		p, ok := sniffParser([]byte(`{"a": 1}`))
		require.True(t, ok)
		assert.Equal(t, "json", p.Name())
	})
}

// TestJSONParser verifies number identity is preserved
func TestJSONParser(t *testing.T) {
	p, err := ParserForExtension("json")
	require.NoError(t, err)

	v, err := p.Parse([]byte(`{"port": 8080, "ratio": 0.5, "name": "svc", "on": true, "tags": ["a"]}`))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, IntValue(8080), obj["port"])
	assert.Equal(t, FloatValue(0.5), obj["ratio"])
	assert.Equal(t, StringValue("svc"), obj["name"])
	assert.Equal(t, BoolValue(true), obj["on"])

	t.Run("Invalid", func(t *testing.T) {
		_, err := p.Parse([]byte(`{not json`))
		assert.Error(t, err)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		out, err := p.Serialize(v)
		require.NoError(t, err)
		back, err := p.Parse(out)
		require.NoError(t, err)
		assert.True(t, v.Equal(back), "got %s", back)
	})
}

// TestYAMLParser verifies nested structures parse into typed values
func TestYAMLParser(t *testing.T) {
	p, err := ParserForExtension("yaml")
	require.NoError(t, err)

	v, err := p.Parse([]byte("db:\n  host: localhost\n  port: 5432\nreplicas:\n  - one\n  - two\n"))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	db, ok := obj["db"].AsObject()
	require.True(t, ok)
	assert.Equal(t, StringValue("localhost"), db["host"])
	assert.Equal(t, IntValue(5432), db["port"])

	replicas, ok := obj["replicas"].AsArray()
	require.True(t, ok)
	require.Len(t, replicas, 2)
	assert.Equal(t, StringValue("one"), replicas[0])

	t.Run("Invalid", func(t *testing.T) {
		_, err := p.Parse([]byte(":\n  - ]["))
		assert.Error(t, err)
	})
}

// TestTOMLParser verifies tables and the object-only top level
func TestTOMLParser(t *testing.T) {
	p, err := ParserForExtension("toml")
	require.NoError(t, err)

	v, err := p.Parse([]byte("[server]\nhost = \"localhost\"\nport = 8080\n"))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	server, ok := obj["server"].AsObject()
	require.True(t, ok)
	assert.Equal(t, StringValue("localhost"), server["host"])
	assert.Equal(t, IntValue(8080), server["port"])

	t.Run("SerializeRejectsNonObject", func(t *testing.T) {
		_, err := p.Serialize(ArrayValue(IntValue(1)))
		var serErr *SerializationError
		require.ErrorAs(t, err, &serErr)
		assert.Equal(t, "toml", serErr.Format)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		out, err := p.Serialize(v)
		require.NoError(t, err)
		back, err := p.Parse(out)
		require.NoError(t, err)
		assert.True(t, v.Equal(back), "got %s", back)
	})
}

// TestINIParser verifies the one-level section model
func TestINIParser(t *testing.T) {
	p, err := ParserForExtension("ini")
	require.NoError(t, err)

	v, err := p.Parse([]byte("debug = true\n\n[database]\nhost = localhost\nport = 5432\n"))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, StringValue("true"), obj["debug"])

	db, ok := obj["database"].AsObject()
	require.True(t, ok)
	assert.Equal(t, StringValue("localhost"), db["host"])
	assert.Equal(t, StringValue("5432"), db["port"])

	t.Run("SerializeRoundTrip", func(t *testing.T) {
		out, err := p.Serialize(v)
		require.NoError(t, err)
		back, err := p.Parse(out)
		require.NoError(t, err)
		assert.True(t, v.Equal(back), "got %s", back)
	})

	t.Run("SerializeRejectsDeepNesting", func(t *testing.T) {
		deep := ObjectValue(map[string]Value{
			"a": ObjectValue(map[string]Value{
				"b": ObjectValue(map[string]Value{"c": IntValue(1)}),
			}),
		})
		_, err := p.Serialize(deep)
		var serErr *SerializationError
		require.ErrorAs(t, err, &serErr)
		assert.Equal(t, "ini", serErr.Format)
	})
}
