package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

type conditionsFile struct {
	Conditions []Condition `yaml:"conditions"`
}

// LoadConditionsYAML reads a knowledge base document of the form
//
//	conditions:
//	  - key: fever
//	    medicines: [Paracetamol, Ibuprofen]
//	    avoid: [...]
//	    remedies: [...]
//
// List order becomes iteration order.
func LoadConditionsYAML(r io.Reader) (*KnowledgeBase, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc conditionsFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("knowledge: empty knowledge base document")
		}
		return nil, fmt.Errorf("knowledge: decode conditions: %w", err)
	}
	return NewKnowledgeBase(doc.Conditions...)
}

const catalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name", "generic", "price"],
        "properties": {
          "id": {"type": "integer", "minimum": 1},
          "name": {"type": "string", "minLength": 1},
          "generic": {"type": "string", "minLength": 1},
          "price": {"type": "integer", "minimum": 1},
          "description": {"type": "string"}
        },
        "additionalProperties": false
      }
    }
  }
}`

var catalogSchemaLoader = gojsonschema.NewStringLoader(catalogSchema)

// LoadCatalogJSON reads {"items": [...]} exported from the backend medicine
// table. The document is checked against a JSON schema before it is decoded,
// so loosely typed rows never reach the catalog.
func LoadCatalogJSON(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read catalog: %w", err)
	}

	result, err := gojsonschema.Validate(catalogSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("knowledge: validate catalog: %w", err)
	}
	if !result.Valid() {
		verr := &ValidationError{Subject: "catalog document"}
		for _, desc := range result.Errors() {
			verr.add(desc.String())
		}
		return nil, verr
	}

	var doc struct {
		Items []CatalogItem `json:"items"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("knowledge: decode catalog: %w", err)
	}
	return NewCatalog(doc.Items...)
}

// LoadKnowledgeBaseFile opens path and loads it, or returns the default
// knowledge base when path is empty.
func LoadKnowledgeBaseFile(path string) (*KnowledgeBase, error) {
	if path == "" {
		return DefaultKnowledgeBase(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: open knowledge base: %w", err)
	}
	defer f.Close()
	return LoadConditionsYAML(f)
}

// LoadCatalogFile opens path and loads it, or returns the default catalog
// when path is empty.
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalogJSON(f)
}
