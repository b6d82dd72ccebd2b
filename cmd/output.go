package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// printPayload renders a result in the requested output format. Table
// output is reserved for flat key/value maps; structured payloads fall
// back to JSON.
func printPayload(w io.Writer, format string, payload interface{}) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(payload)
	case "table":
		if flat, ok := payload.(map[string]interface{}); ok {
			printTable(w, flat)
			return nil
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: table, json, yaml)", format)
	}
}

func printTable(w io.Writer, entries map[string]interface{}) {
	keys := make([]string, 0, len(entries))
	width := 0
	for key := range entries {
		keys = append(keys, key)
		if len(key) > width {
			width = len(key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(w, "%-*s  %v\n", width, key, entries[key])
	}
}
