//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package schema generates JSON schemas for tool inputs via reflection.
package schema

import (
	"reflect"
	"strings"

	"github.com/agentgraph-ai/agentgraph/tool"
)

// Generate builds a JSON schema for the given Go type. Struct fields use
// their json tag for the property name; a `jsonschema:"description=..."` tag
// supplies the property description. Fields without an omitempty json option
// are marked required.
func Generate(t reflect.Type) *tool.Schema {
	if t == nil {
		return &tool.Schema{Type: "object"}
	}
	return generate(t)
}

func generate(t reflect.Type) *tool.Schema {
	switch t.Kind() {
	case reflect.Pointer:
		return generate(t.Elem())
	case reflect.String:
		return &tool.Schema{Type: "string"}
	case reflect.Bool:
		return &tool.Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &tool.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &tool.Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		return &tool.Schema{Type: "array", Items: generate(t.Elem())}
	case reflect.Map:
		return &tool.Schema{Type: "object", AdditionalProperties: true}
	case reflect.Struct:
		return generateStruct(t)
	default:
		// Interfaces and anything else degrade to a free-form object.
		return &tool.Schema{Type: "object"}
	}
}

func generateStruct(t reflect.Type) *tool.Schema {
	s := &tool.Schema{
		Type:       "object",
		Properties: make(map[string]*tool.Schema),
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, optional := fieldName(field)
		if name == "-" {
			continue
		}
		prop := generate(field.Type)
		if desc := fieldDescription(field); desc != "" {
			prop.Description = desc
		}
		s.Properties[name] = prop
		if !optional {
			s.Required = append(s.Required, name)
		}
	}
	return s
}

func fieldName(field reflect.StructField) (name string, optional bool) {
	name = field.Name
	tag := field.Tag.Get("json")
	if tag == "" {
		return name, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			optional = true
		}
	}
	return name, optional
}

func fieldDescription(field reflect.StructField) string {
	tag := field.Tag.Get("jsonschema")
	for _, part := range strings.Split(tag, ",") {
		if strings.HasPrefix(part, "description=") {
			return strings.TrimPrefix(part, "description=")
		}
	}
	return ""
}
