/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package mapping

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/xeipuuv/gojsonschema"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"dirpx.dev/uix/apis"
)

//go:embed schema.json
var schema []byte

// record is the authored form of one entry, shared by every source format.
type record struct {
	Type   string `json:"type" yaml:"type" cbor:"type"`
	Path   string `json:"path" yaml:"path" cbor:"path"`
	OnHide string `json:"on_hide,omitempty" yaml:"on_hide,omitempty" cbor:"on_hide,omitempty"`
}

type document struct {
	Views []record `json:"views" yaml:"views"`
}

// hclFile is the top-level structure of a mapping file:
//
//	view "Inventory" {
//	  path    = "${root}/Inventory"
//	  on_hide = "destroy"
//	}
type hclFile struct {
	Views  []*hclView `hcl:"view,block"`
	Remain hcl.Body   `hcl:",remain"`
}

type hclView struct {
	Type   string  `hcl:"type,label"`
	Path   string  `hcl:"path"`
	OnHide *string `hcl:"on_hide,optional"`
}

// ParseHCL parses view blocks from src. vars are exposed to expressions as
// top-level variables. Parsed entries are bound to types.
func ParseHCL(filename string, src []byte, vars map[string]cty.Value, types ...reflect.Type) (*Table, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: parse %s: %s", ErrInvalidMapping, filename, diags.Error())
	}

	var ectx *hcl.EvalContext
	if len(vars) > 0 {
		ectx = &hcl.EvalContext{Variables: vars}
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, ectx, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("%w: decode %s: %s", ErrInvalidMapping, filename, diags.Error())
	}

	records := make([]record, 0, len(parsed.Views))
	for _, v := range parsed.Views {
		r := record{Type: v.Type, Path: v.Path}
		if v.OnHide != nil {
			r.OnHide = *v.OnHide
		}
		records = append(records, r)
	}
	return fromRecords(records, types)
}

// ParseYAML parses a document of the form
//
//	views:
//	  - type: Inventory
//	    path: UI/Inventory
//	    on_hide: destroy
func ParseYAML(src []byte, types ...reflect.Type) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	return fromRecords(doc.Views, types)
}

// ParseJSON parses the JSON form of the YAML document after validating it
// against the embedded schema.
func ParseJSON(src []byte, types ...reflect.Type) (*Table, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(src),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidMapping, strings.Join(details, "; "))
	}

	var doc document
	if err := json.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	return fromRecords(doc.Views, types)
}

// LoadFile reads path and parses it by extension: .hcl, .yaml, .yml or .json.
// vars only apply to HCL.
func LoadFile(path string, vars map[string]cty.Value, types ...reflect.Type) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return ParseHCL(path, src, vars, types...)
	case ".yaml", ".yml":
		return ParseYAML(src, types...)
	case ".json":
		return ParseJSON(src, types...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func fromRecords(records []record, types []reflect.Type) (*Table, error) {
	entries := make([]apis.MappingEntry, 0, len(records))
	for i, r := range records {
		name := strings.TrimSpace(r.Type)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d has no type", ErrInvalidMapping, i)
		}
		policy, err := apis.ParseHidePolicy(r.OnHide)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d (%s): %w", ErrInvalidMapping, i, name, err)
		}
		entries = append(entries, apis.MappingEntry{TypeName: name, Path: r.Path, OnHide: policy})
	}
	return New(entries...).Bind(types...), nil
}
