package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a document serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", path, err)
	}
	return doc, nil
}

// Decode parses a document. YAML input is converted to its JSON equivalent
// first so both formats share one decoder and produce identical models.
func Decode(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("converting yaml: %w", err)
		}
		data = converted
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// validate rejects variants the compiler does not know about, so that
// compilation never meets them.
func (doc *Document) validate() error {
	seen := make(map[string]struct{}, len(doc.Instances))
	for _, instance := range doc.Instances {
		if instance.ID == "" {
			return fmt.Errorf("instance with empty id")
		}
		if _, dup := seen[instance.ID]; dup {
			return fmt.Errorf("duplicate instance id %q", instance.ID)
		}
		seen[instance.ID] = struct{}{}
		for _, child := range instance.Children {
			switch child.Type {
			case ChildID, ChildText, ChildExpression:
			default:
				return fmt.Errorf("instance %q: unknown child type %q", instance.ID, child.Type)
			}
		}
	}
	for _, ds := range doc.DataSources {
		switch ds.Type {
		case DataSourceVariable, DataSourceParameter:
		case DataSourceResource:
			if ds.ResourceID == "" {
				return fmt.Errorf("resource data source %q has no resourceId", ds.ID)
			}
		default:
			return fmt.Errorf("data source %q: unknown type %q", ds.ID, ds.Type)
		}
	}
	return nil
}
