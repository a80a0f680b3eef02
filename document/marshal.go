package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml", in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or yaml)", s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

const jsonIndent = "    "

// Marshal serializes the document. The output ends with a newline.
func Marshal(doc *Document, f Format) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("marshal: nil document")
	}
	switch f {
	case FormatJSON:
		return marshalJSON(doc.body)
	case FormatYAML:
		return marshalYAML(doc.body)
	default:
		return nil, fmt.Errorf("marshal document %q: unknown format %q", doc.name, f)
	}
}

func marshalJSON(o *Object) ([]byte, error) {
	var compact bytes.Buffer
	if err := writeJSON(&compact, o); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", jsonIndent); err != nil {
		return nil, fmt.Errorf("indent json: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// writeJSON writes v compactly, keeping Object member order. Text is written
// unescaped; the map's own MarshalJSON would turn <, > and & into \u escapes.
func writeJSON(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case *Object:
		buf.WriteByte('{')
		for pair := x.members.Oldest(); pair != nil; pair = pair.Next() {
			if pair != x.members.Oldest() {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, pair.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, pair.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return writeScalar(buf, x)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %T: %w", v, err)
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func marshalYAML(o *Object) ([]byte, error) {
	var out bytes.Buffer
	enc := yaml.NewEncoder(&out)
	enc.SetIndent(2)
	if err := enc.Encode(o); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return out.Bytes(), nil
}
