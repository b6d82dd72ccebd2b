package storage

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestStorageProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: any string value round-trips through Set/Get.
	properties.Property("string round trip", prop.ForAll(
		func(key, value string) bool {
			s := New(Options{Backend: NewMemoryBackend(0)})
			if !s.Set(key, value, SetOptions{}) {
				return false
			}
			got, ok := s.Get(key, nil).(string)
			return ok && got == value
		},
		gen.RegexMatch(`^[a-z][a-z0-9_]{0,20}$`),
		gen.AnyString(),
	))

	// Property: maps of strings round-trip deep-equal.
	properties.Property("object round trip", prop.ForAll(
		func(key string, value map[string]string) bool {
			s := New(Options{Backend: NewMemoryBackend(0)})
			if !s.Set(key, value, SetOptions{}) {
				return false
			}
			got, ok := s.Get(key, nil).(map[string]interface{})
			if !ok {
				return len(value) == 0 && s.Has(key)
			}
			if len(got) != len(value) {
				return false
			}
			for k, v := range value {
				if got[k] != v {
					return false
				}
			}
			return true
		},
		gen.RegexMatch(`^[a-z][a-z0-9_]{0,20}$`),
		gen.MapOf(gen.AlphaString(), gen.AlphaString()),
	))

	// Property: Remove after Set always leaves the key absent.
	properties.Property("remove leaves no trace", prop.ForAll(
		func(key, value string) bool {
			backend := NewMemoryBackend(0)
			s := New(Options{Backend: backend})
			s.Set(key, value, SetOptions{})
			s.Remove(key)
			keys, _ := backend.Keys()
			return !s.Has(key) && len(keys) == 0
		},
		gen.RegexMatch(`^[a-z][a-z0-9_]{0,20}$`),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
