package attrs

import (
	"reflect"
	"strings"
)

// Kind is the value domain of a reserved attribute.
type Kind string

const (
	KindText         Kind = "text"
	KindNumber       Kind = "number" // non-negative integer
	KindStatus       Kind = "status"
	KindHTTPMethod   Kind = "http_method"
	KindTextOrNumber Kind = "text_or_number"
	KindObject       Kind = "object"     // reserved sub-object with a fixed shape
	KindAnyObject    Kind = "any_object" // free-form object
)

// Field is one entry of the reserved attribute catalog.
type Field struct {
	Path string
	Kind Kind
}

// node is the shape of one attribute; children is set for KindObject.
type node struct {
	kind     Kind
	children map[string]*node
	order    []string
}

var (
	statusType  = reflect.TypeOf(Status(""))
	methodType  = reflect.TypeOf(HTTPMethod(""))
	versionType = reflect.TypeOf(Version{})

	root = buildNode(reflect.TypeOf(LogMetadata{}))
)

func buildNode(t reflect.Type) *node {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch {
	case t == statusType:
		return &node{kind: KindStatus}
	case t == methodType:
		return &node{kind: KindHTTPMethod}
	case t == versionType:
		return &node{kind: KindTextOrNumber}
	}

	switch t.Kind() {
	case reflect.String:
		return &node{kind: KindText}
	case reflect.Int, reflect.Int32, reflect.Int64:
		return &node{kind: KindNumber}
	case reflect.Map:
		return &node{kind: KindAnyObject}
	case reflect.Struct:
		n := &node{kind: KindObject, children: make(map[string]*node)}
		for i := 0; i < t.NumField(); i++ {
			name := jsonName(t.Field(i))
			if name == "" {
				continue
			}
			n.children[name] = buildNode(t.Field(i).Type)
			n.order = append(n.order, name)
		}
		return n
	default:
		panic("attrs: unsupported field type " + t.String())
	}
}

// jsonName returns the wire name of a struct field, or "" when it is not encoded.
func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" || !f.IsExported() {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

// isReserved reports whether key is a reserved top-level attribute
func isReserved(key string) bool {
	_, ok := root.children[key]
	return ok
}

// Fields returns every reserved attribute as a dotted path, in declaration order
func Fields() []Field {
	var out []Field
	var walk func(prefix string, n *node)
	walk = func(prefix string, n *node) {
		for _, name := range n.order {
			child := n.children[name]
			path := name
			if prefix != "" {
				path = prefix + "." + name
			}
			out = append(out, Field{Path: path, Kind: child.kind})
			if child.kind == KindObject {
				walk(path, child)
			}
		}
	}
	walk("", root)
	return out
}

// KindOf returns the kind of a reserved attribute given as a dotted path
func KindOf(path string) (Kind, bool) {
	n := lookupNode(path)
	if n == nil {
		return "", false
	}
	return n.kind, true
}

func lookupNode(path string) *node {
	if path == "" {
		return nil
	}
	n := root
	for _, part := range strings.Split(path, ".") {
		if n.children == nil {
			return nil
		}
		n = n.children[part]
		if n == nil {
			return nil
		}
	}
	return n
}
