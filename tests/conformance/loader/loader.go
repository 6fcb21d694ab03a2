// Package loader reads conformance suites for the corpus runner.
//
// A suite is a JSON or YAML file holding a list of cases:
//
//	[
//	  {"description": "sum", "rule": {"+": [1, 2]}, "data": null, "result": 3},
//	  {"description": "bad", "rule": {"/": [1, 0]}, "data": null, "error": {"type": "NaN"}}
//	]
//
// YAML suites use the same shape; they are normalized to JSON before the
// runner sees them.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Case is a single rule ⇒ data ⇒ expectation triple. Exactly one of
// Result and Error is set; HasResult distinguishes an expected null
// result from an expected error.
type Case struct {
	Description string
	Rule        json.RawMessage
	Data        json.RawMessage
	Result      json.RawMessage
	Error       json.RawMessage
	HasResult   bool
}

// Suite is a named list of cases loaded from one file.
type Suite struct {
	Name  string
	Cases []Case
}

// LoadDir loads every *.json and *.yaml suite in dir, sorted by name.
func LoadDir(dir string) ([]Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var suites []Suite
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)
		var suite Suite
		switch {
		case strings.HasSuffix(name, ".json"):
			suite, err = loadJSON(path)
		case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
			suite, err = loadYAML(path)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		suites = append(suites, suite)
	}
	sort.Slice(suites, func(i, j int) bool { return suites[i].Name < suites[j].Name })
	return suites, nil
}

func loadJSON(path string) (Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, err
	}
	var rawCases []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rawCases); err != nil {
		return Suite{}, err
	}
	return buildSuite(suiteName(path), rawCases)
}

// loadYAML decodes a YAML suite and re-encodes each field as JSON so the
// runner handles both formats uniformly.
func loadYAML(path string) (Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, err
	}
	var docs []map[string]any
	if err := yaml.Unmarshal(raw, &docs); err != nil {
		return Suite{}, err
	}
	rawCases := make([]map[string]json.RawMessage, len(docs))
	for i, doc := range docs {
		rc := make(map[string]json.RawMessage, len(doc))
		for k, v := range doc {
			b, err := json.Marshal(v)
			if err != nil {
				return Suite{}, fmt.Errorf("case %d field %q: %w", i, k, err)
			}
			rc[k] = b
		}
		rawCases[i] = rc
	}
	return buildSuite(suiteName(path), rawCases)
}

func buildSuite(name string, rawCases []map[string]json.RawMessage) (Suite, error) {
	suite := Suite{Name: name}
	for i, rc := range rawCases {
		c := Case{
			Rule: rc["rule"],
			Data: rc["data"],
		}
		if d, ok := rc["description"]; ok {
			_ = json.Unmarshal(d, &c.Description)
		}
		if c.Description == "" {
			c.Description = fmt.Sprintf("case-%d", i)
		}
		if len(c.Rule) == 0 {
			return Suite{}, fmt.Errorf("case %q has no rule", c.Description)
		}
		if len(c.Data) == 0 {
			c.Data = json.RawMessage("null")
		}
		if result, ok := rc["result"]; ok {
			c.Result = result
			c.HasResult = true
		}
		if errShape, ok := rc["error"]; ok {
			if c.HasResult {
				return Suite{}, fmt.Errorf("case %q has both result and error", c.Description)
			}
			c.Error = errShape
		}
		if !c.HasResult && len(c.Error) == 0 {
			return Suite{}, fmt.Errorf("case %q has neither result nor error", c.Description)
		}
		suite.Cases = append(suite.Cases, c)
	}
	return suite, nil
}

func suiteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(strings.TrimSuffix(base, filepath.Ext(base)), ".")
}
