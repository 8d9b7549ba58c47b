package fields

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RuleFile is the JSON document accepted by LoadRuleFile. Each entry
// replaces the built-in rules for the fields it names; fields not
// mentioned keep their default rules.
type RuleFile struct {
	Rules []RuleSpec `json:"rules"`
}

// RuleSpec declares replacement patterns for one or more catalog
// fields. Multiple patterns are ordered fallbacks; each pattern must
// carry exactly one capture group per named field.
type RuleSpec struct {
	Fields   []string `json:"fields"`
	Patterns []string `json:"patterns"`
}

const ruleFileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["rules"],
  "additionalProperties": false,
  "properties": {
    "rules": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["fields", "patterns"],
        "additionalProperties": false,
        "properties": {
          "fields": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 1}
          },
          "patterns": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 1}
          }
        }
      }
    }
  }
}`

// LoadRuleFile reads a custom rule catalog from path, validates it
// against the rule file schema, and merges it over the built-in
// catalog. Rules from the file are tried before the surviving
// defaults.
func LoadRuleFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	return ParseRuleFile(data)
}

// ParseRuleFile validates and compiles a custom rule catalog from raw
// JSON bytes
func ParseRuleFile(data []byte) (*Catalog, error) {
	if err := validateRuleFile(data); err != nil {
		return nil, err
	}

	var file RuleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	custom := make([]Rule, 0, len(file.Rules))
	overridden := make(map[string]bool)
	for _, spec := range file.Rules {
		for _, pattern := range spec.Patterns {
			custom = append(custom, Rule{Fields: spec.Fields, Pattern: pattern})
		}
		for _, field := range spec.Fields {
			overridden[field] = true
		}
	}

	// Keep default rules only for fields the file does not cover
	for _, rule := range defaultRules() {
		if !bindsOverridden(rule, overridden) {
			custom = append(custom, rule)
		}
	}

	catalog, err := NewCatalog(custom)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file: %w", err)
	}
	return catalog, nil
}

func bindsOverridden(rule Rule, overridden map[string]bool) bool {
	for _, field := range rule.Fields {
		if overridden[field] {
			return true
		}
	}
	return false
}

// validateRuleFile checks the raw JSON against the rule file schema
func validateRuleFile(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules.schema.json", strings.NewReader(ruleFileSchema)); err != nil {
		return fmt.Errorf("failed to load rules schema: %w", err)
	}
	schema, err := compiler.Compile("rules.schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile rules schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("rules file is not valid JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("rules file does not match schema: %w", err)
	}

	return nil
}
