// FILE: spicex/type.go

package spicex

import (
	"fmt"
	"math"
)

// GetString retrieves the value at key coerced to a string. Scalar values
// render in their canonical textual form; arrays and objects do not coerce.
func (c *Config) GetString(key string) (string, error) {
	v, ok := c.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	s, ok := v.AsString()
	if !ok {
		return "", &ConversionError{Key: key, From: v.Kind().String(), To: "string"}
	}
	return s, nil
}

// GetInt64 retrieves the value at key coerced to an int64. Floats truncate
// toward zero; strings parse as integer first, then as a truncated float.
func (c *Config) GetInt64(key string) (int64, error) {
	v, ok := c.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, &ConversionError{Key: key, From: v.Kind().String(), To: "int64"}
	}
	return i, nil
}

// GetInt retrieves the value at key coerced to an int, failing when the
// value does not fit the platform int width.
func (c *Config) GetInt(key string) (int, error) {
	i, err := c.GetInt64(key)
	if err != nil {
		return 0, err
	}
	if i > math.MaxInt || i < math.MinInt {
		return 0, &ConversionError{Key: key, From: "int64", To: "int"}
	}
	return int(i), nil
}

// GetFloat64 retrieves the value at key coerced to a float64.
func (c *Config) GetFloat64(key string) (float64, error) {
	v, ok := c.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	f, ok := v.AsFloat()
	if !ok {
		return 0, &ConversionError{Key: key, From: v.Kind().String(), To: "float64"}
	}
	return f, nil
}

// GetBool retrieves the value at key coerced to a bool. Strings accept the
// usual spellings ("true", "1", "yes", "on" and their negations, any case);
// integers map zero to false and anything else to true.
func (c *Config) GetBool(key string) (bool, error) {
	v, ok := c.Get(key)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	b, ok := v.AsBool()
	if !ok {
		return false, &ConversionError{Key: key, From: v.Kind().String(), To: "bool"}
	}
	return b, nil
}

// GetStringSlice retrieves the array at key with every element coerced to a
// string. A single scalar value is returned as a one-element slice.
func (c *Config) GetStringSlice(key string) ([]string, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	elems, ok := v.AsArray()
	if !ok {
		s, sok := v.AsString()
		if !sok {
			return nil, &ConversionError{Key: key, From: v.Kind().String(), To: "[]string"}
		}
		return []string{s}, nil
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		s, sok := e.AsString()
		if !sok {
			return nil, &ConversionError{Key: key, From: e.Kind().String(), To: "string"}
		}
		out[i] = s
	}
	return out, nil
}
