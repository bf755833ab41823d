package bank

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/qiscreen/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a bank file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from a file extension. Anything that is not
// ".json" is treated as YAML (a superset of JSON).
func FormatFromPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses raw bank bytes into a generic tree suitable for Load.
func Decode(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &domain.LoadError{Source: string(format), Reason: "invalid json", Err: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &domain.LoadError{Source: string(format), Reason: "invalid yaml", Err: err}
		}
	default:
		return nil, &domain.LoadError{Source: string(format), Reason: fmt.Sprintf("unsupported format %q", format)}
	}
	return normalize(raw), nil
}

// normalize converts map[any]any nodes (YAML mappings with non-string keys) into
// map[string]any so the loader sees a single shape.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
