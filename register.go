// FILE: spicex/register.go

package spicex

import (
	"fmt"
	"reflect"
	"strings"
)

// SetStructDefaults walks a struct and registers each exported leaf field's
// value as a default, using "mapstructure" tags for key names. The prefix,
// when non-empty, is prepended to every key. Existing defaults are
// preserved, matching SetDefault semantics.
func (c *Config) SetStructDefaults(prefix string, structWithDefaults any) error {
	v := reflect.ValueOf(structWithDefaults)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("SetStructDefaults requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("SetStructDefaults requires a struct or struct pointer, got %T", structWithDefaults)
	}

	var failures []string
	c.setFieldDefaults(v, strings.TrimSuffix(prefix, c.KeyDelimiter()), &failures)
	if len(failures) > 0 {
		return fmt.Errorf("failed to set %d default(s): %s", len(failures), strings.Join(failures, "; "))
	}
	return nil
}

func (c *Config) setFieldDefaults(v reflect.Value, prefix string, failures *[]string) {
	t := v.Type()
	delimiter := c.KeyDelimiter()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(c.tagName)
		if tag == "-" {
			continue
		}
		key := field.Name
		if tag != "" {
			if name, _, _ := strings.Cut(tag, ","); name != "" {
				key = name
			}
		}

		fullKey := key
		if prefix != "" {
			fullKey = prefix + delimiter + key
		}

		isStruct := fieldValue.Kind() == reflect.Struct
		isPtrToStruct := fieldValue.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct

		if isStruct || isPtrToStruct {
			nested := fieldValue
			if isPtrToStruct {
				if fieldValue.IsNil() {
					continue
				}
				nested = fieldValue.Elem()
			}
			c.setFieldDefaults(nested, fullKey, failures)
			continue
		}

		if err := c.SetDefault(fullKey, fieldValue.Interface()); err != nil {
			*failures = append(*failures, fmt.Sprintf("field %s (key %s): %v", field.Name, fullKey, err))
		}
	}
}
