package schemafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/schema"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type documentFile struct {
	Title        string            `json:"title" yaml:"title"`
	CustomLabels map[string]string `json:"customLabels,omitempty" yaml:"customLabels,omitempty"`
	Fields       []fieldFile       `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	ID       string   `json:"id" yaml:"id"`
	Type     string   `json:"type" yaml:"type"`
	Label    string   `json:"label" yaml:"label"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Min      *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step     *float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// Load reads a JSON or YAML form document from disk.
func Load(path string, options ...schema.StoreOption) (*schema.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: read %s: %w", path, err)
	}
	return Parse(data, path, options...)
}

// LoadFS reads a form document from fsys.
func LoadFS(fsys fs.FS, path string, options ...schema.StoreOption) (*schema.Store, error) {
	if fsys == nil {
		return nil, fmt.Errorf("schemafile: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: read %s: %w", path, err)
	}
	return Parse(data, path, options...)
}

// Parse decodes a document, trying JSON first and YAML second, and builds a
// fresh Store from it. source only labels error messages.
func Parse(data []byte, source string, options ...schema.StoreOption) (*schema.Store, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("schemafile: %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = documentFile{}
		if yamlErr := yaml.Unmarshal(data, &doc); yamlErr != nil {
			return nil, fmt.Errorf("schemafile: parse %s: invalid JSON or YAML: %w", source, yamlErr)
		}
	}

	fields, err := decodeFields(doc.Fields, source)
	if err != nil {
		return nil, err
	}
	labels, err := decodeLabels(doc.CustomLabels, source)
	if err != nil {
		return nil, err
	}

	store, err := schema.NewStoreFrom(doc.Title, fields, labels, options...)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %s: %w", source, err)
	}
	return store, nil
}

func decodeFields(raw []fieldFile, source string) ([]model.Field, error) {
	fields := make([]model.Field, 0, len(raw))
	for idx, entry := range raw {
		typ, ok := model.ParseFieldType(entry.Type)
		if !ok {
			return nil, fmt.Errorf("schemafile: %s: field %d (%q) has unknown type %q", source, idx, entry.ID, entry.Type)
		}
		field := model.NewField(model.FieldID(strings.TrimSpace(entry.ID)), typ, entry.Label)
		field.Required = entry.Required

		switch aux := field.Aux.(type) {
		case model.Options:
			if len(entry.Options) > 0 {
				field.Aux = model.Options{Items: append([]string(nil), entry.Options...)}
			}
		case model.Range:
			if entry.Min != nil {
				aux.Min = *entry.Min
			}
			if entry.Max != nil {
				aux.Max = *entry.Max
			}
			if entry.Step != nil {
				aux.Step = *entry.Step
			}
			field.Aux = aux
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func decodeLabels(raw map[string]string, source string) (map[model.FieldType]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	labels := make(map[model.FieldType]string, len(raw))
	for key, label := range raw {
		typ, ok := model.ParseFieldType(key)
		if !ok {
			return nil, fmt.Errorf("schemafile: %s: custom label for unknown type %q", source, key)
		}
		labels[typ] = label
	}
	return labels, nil
}

// Encode serialises the store's current state.
func Encode(store *schema.Store, format Format) ([]byte, error) {
	if store == nil {
		return nil, fmt.Errorf("schemafile: store is nil")
	}
	doc := documentFile{Title: store.Title()}

	if labels := store.CustomLabels(); len(labels) > 0 {
		doc.CustomLabels = make(map[string]string, len(labels))
		for typ, label := range labels {
			doc.CustomLabels[string(typ)] = label
		}
	}

	fields := store.Fields()
	doc.Fields = make([]fieldFile, 0, len(fields))
	for _, field := range fields {
		entry := fieldFile{
			ID:       string(field.ID),
			Type:     string(field.Type),
			Label:    field.Label,
			Required: field.Required,
		}
		if opts, ok := field.Options(); ok {
			entry.Options = opts
		}
		if r, ok := field.Range(); ok {
			entry.Min, entry.Max, entry.Step = &r.Min, &r.Max, &r.Step
		}
		doc.Fields = append(doc.Fields, entry)
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("schemafile: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("schemafile: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("schemafile: encode json: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("schemafile: unsupported format %q", format)
	}
}

// Save writes the store to path, choosing the format from the extension.
func Save(path string, store *schema.Store) error {
	data, err := Encode(store, FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("schemafile: write %s: %w", path, err)
	}
	return nil
}
