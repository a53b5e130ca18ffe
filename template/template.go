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

// Package template decodes view templates and instantiates them through
// registered factories.
package template

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrDecode is returned when template bytes cannot be decoded.
	ErrDecode = errors.New("uix(template): cannot decode template")
	// ErrMissingKind is returned for a template without a kind.
	ErrMissingKind = errors.New("uix(template): template has no kind")
)

// Template is the serialized description of one view object.
type Template struct {
	// Kind selects the Factory that builds the object.
	Kind string `cbor:"kind" yaml:"kind"`
	// Name is an optional instance name.
	Name string `cbor:"name,omitempty" yaml:"name,omitempty"`
	// DestroyOnHide is the authored destroy-on-hide flag of the view.
	DestroyOnHide bool `cbor:"destroy_on_hide,omitempty" yaml:"destroy_on_hide,omitempty"`
	// Props are free-form factory inputs.
	Props map[string]any `cbor:"props,omitempty" yaml:"props,omitempty"`
}

// Prop returns the string form of a property, or "".
func (t Template) Prop(name string) string {
	v, ok := t.Props[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Codec selects the byte encoding of templates.
type Codec int

const (
	// CodecCBOR is the default encoding.
	CodecCBOR Codec = iota
	// CodecYAML is a human-editable encoding.
	CodecYAML
)

func (c Codec) String() string {
	switch c {
	case CodecCBOR:
		return "cbor"
	case CodecYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Encode writes t as CBOR.
func Encode(t Template) ([]byte, error) {
	return cbor.Marshal(t)
}

// Decode reads a CBOR template.
func Decode(data []byte) (Template, error) {
	var t Template
	if err := cbor.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return t, validate(t)
}

// EncodeYAML writes t as YAML.
func EncodeYAML(t Template) ([]byte, error) {
	return yaml.Marshal(t)
}

// DecodeYAML reads a YAML template.
func DecodeYAML(data []byte) (Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return t, validate(t)
}

func (c Codec) decode(data []byte) (Template, error) {
	if c == CodecYAML {
		return DecodeYAML(data)
	}
	return Decode(data)
}

func validate(t Template) error {
	if t.Kind == "" {
		return ErrMissingKind
	}
	return nil
}
