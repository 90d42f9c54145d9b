// Package infra declares the CloudFormation resources that run the pipeline.
//
// Resources are package-level values referencing each other by logical name
// through the Ref, GetAtt and Sub intrinsics:
//
//	var UploadFunction = function(...)
//	var UploadPermission = ResourceDef{
//	    Type: "AWS::Lambda::Permission",
//	    Properties: map[string]any{
//	        "FunctionName": GetAtt{"UploadFunction", "Arn"},
//	    },
//	}
//
// Build assembles them into a Template and rejects references to undeclared
// resources or parameters.
package infra

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormatVersion is the template format version.
const FormatVersion = "2010-09-09"

// ErrUnresolvedReference is returned by Build when an intrinsic names an
// undeclared resource or parameter.
var ErrUnresolvedReference = errors.New("imagepipe: unresolved template reference")

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter   `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the template.
type ResourceDef struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Parameter is a template parameter.
type Parameter struct {
	Type        string `json:"Type" yaml:"Type"`
	Description string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Default     any    `json:"Default,omitempty" yaml:"Default,omitempty"`
}

// Output is a template output.
type Output struct {
	Description string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any    `json:"Value" yaml:"Value"`
}

// Ref is the Ref intrinsic. Names starting with "AWS::" are pseudo parameters.
type Ref string

func (r Ref) value() any { return map[string]any{"Ref": string(r)} }

// MarshalJSON serializes Ref as {"Ref": name}.
func (r Ref) MarshalJSON() ([]byte, error) { return json.Marshal(r.value()) }

// MarshalYAML serializes Ref as a Ref mapping.
func (r Ref) MarshalYAML() (any, error) { return r.value(), nil }

// GetAtt is the Fn::GetAtt intrinsic.
type GetAtt struct {
	Resource  string
	Attribute string
}

func (g GetAtt) value() any {
	return map[string]any{"Fn::GetAtt": []string{g.Resource, g.Attribute}}
}

// MarshalJSON serializes GetAtt as {"Fn::GetAtt": [resource, attribute]}.
func (g GetAtt) MarshalJSON() ([]byte, error) { return json.Marshal(g.value()) }

// MarshalYAML serializes GetAtt as an Fn::GetAtt mapping.
func (g GetAtt) MarshalYAML() (any, error) { return g.value(), nil }

// Sub is the Fn::Sub intrinsic over a ${Name} or ${Name.Attribute} string.
type Sub string

func (s Sub) value() any { return map[string]any{"Fn::Sub": string(s)} }

// MarshalJSON serializes Sub as {"Fn::Sub": template}.
func (s Sub) MarshalJSON() ([]byte, error) { return json.Marshal(s.value()) }

// MarshalYAML serializes Sub as an Fn::Sub mapping.
func (s Sub) MarshalYAML() (any, error) { return s.value(), nil }

// Build assembles every declared resource into a template and validates
// that all references resolve.
func Build() (*Template, error) {
	t := &Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              "Image upload, recognition and integration pipeline",
		Parameters:               parameters(),
		Resources:                resources(),
		Outputs:                  outputs(),
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks every Ref, GetAtt, Sub variable and DependsOn entry in t.
func Validate(t *Template) error {
	known := make(map[string]bool, len(t.Resources)+len(t.Parameters))
	for name := range t.Resources {
		known[name] = true
	}
	for name := range t.Parameters {
		known[name] = true
	}

	missing := make(map[string]bool)
	check := func(owner, target string, resourceOnly bool) {
		if strings.HasPrefix(target, "AWS::") && !resourceOnly {
			return
		}
		if resourceOnly {
			if _, ok := t.Resources[target]; ok {
				return
			}
		} else if known[target] {
			return
		}
		missing[fmt.Sprintf("%s -> %s", owner, target)] = true
	}

	for name, res := range t.Resources {
		walk(res.Properties, func(target string, resourceOnly bool) { check(name, target, resourceOnly) })
		for _, dep := range res.DependsOn {
			check(name, dep, true)
		}
	}
	for name, out := range t.Outputs {
		walk(out.Value, func(target string, resourceOnly bool) { check(name, target, resourceOnly) })
	}

	if len(missing) == 0 {
		return nil
	}
	refs := make([]string, 0, len(missing))
	for r := range missing {
		refs = append(refs, r)
	}
	sort.Strings(refs)
	return fmt.Errorf("%w: %s", ErrUnresolvedReference, strings.Join(refs, ", "))
}

var subVar = regexp.MustCompile(`\$\{([^!}][^}]*)\}`)

// walk reports every reference target found in v.
func walk(v any, visit func(target string, resourceOnly bool)) {
	switch x := v.(type) {
	case Ref:
		visit(string(x), false)
	case GetAtt:
		visit(x.Resource, true)
	case Sub:
		for _, m := range subVar.FindAllStringSubmatch(string(x), -1) {
			name, _, hasAttr := strings.Cut(m[1], ".")
			visit(name, hasAttr)
		}
	case map[string]any:
		for _, val := range x {
			walk(val, visit)
		}
	case []any:
		for _, val := range x {
			walk(val, visit)
		}
	}
}

// ToJSON renders the template as indented JSON.
func ToJSON(t *Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML renders the template as YAML.
func ToYAML(t *Template) ([]byte, error) {
	return yaml.Marshal(t)
}
