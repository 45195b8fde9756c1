package ast

import "strings"

// Node is the language-agnostic AST node shared by every parser and
// analyzer. A normalizer lowers a grammar-specific parse tree into a tree
// of Nodes; downstream code inspects only Type, Name, Children and
// Metadata, never the underlying grammar.
type Node struct {
	Type     string   `json:"node_type"`
	Name     string   `json:"name,omitempty"`
	Language string   `json:"language"`
	Children []*Node  `json:"children,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// NewNode creates a node with the given type and language. The language
// tag is set on every node at construction so the root's language is
// propagated to every descendant by the normalizers.
func NewNode(nodeType, language string) *Node {
	return &Node{Type: nodeType, Language: language}
}

// AddChild appends a child node. Nil children are dropped so normalizers
// can pass through the result of a partial lowering without nil checks.
func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// Set stores a metadata attribute, allocating the map on first use.
func (n *Node) Set(key string, value any) {
	if n.Metadata == nil {
		n.Metadata = Metadata{}
	}
	n.Metadata[key] = value
}

// Metadata is the open string-keyed attribute map carried by nodes. Values
// are scalars, []any lists, nested maps, or []Annotation payloads.
type Metadata map[string]any

// String returns the string stored under key, or "" when absent or not a
// string.
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// Strings returns the list of strings stored under key. A bare string is
// returned as a one-element list.
func (m Metadata) Strings(key string) []string {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Has reports whether key is present, regardless of its value.
func (m Metadata) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m[key]
	return ok
}

// Annotation is the serialized form of a Python decorator or a Java
// annotation: a dotted name, ordered positional arguments (literals where
// resolvable), and a keyword map of parameter name to literal.
type Annotation struct {
	Name     string         `json:"name"`
	Args     []any          `json:"args,omitempty"`
	Keywords map[string]any `json:"keywords,omitempty"`
}

// Keyword returns the literal bound to the named annotation parameter, or
// nil when absent.
func (a Annotation) Keyword(name string) any {
	if a.Keywords == nil {
		return nil
	}
	return a.Keywords[name]
}

// ShortName returns the final dotted segment of the annotation name.
func (a Annotation) ShortName() string {
	if idx := strings.LastIndex(a.Name, "."); idx >= 0 {
		return a.Name[idx+1:]
	}
	return a.Name
}

// AnnotationsOf returns the decorator/annotation payloads attached to a
// node by its normalizer. Python normalizers store them under
// KeyDecorators, Java normalizers under KeyAnnotations; both carry the
// same Annotation shape.
func AnnotationsOf(n *Node) []Annotation {
	if n == nil || n.Metadata == nil {
		return nil
	}
	for _, key := range []string{KeyDecorators, KeyAnnotations} {
		if raw, ok := n.Metadata[key]; ok {
			if annotations, ok := raw.([]Annotation); ok {
				return annotations
			}
		}
	}
	return nil
}

// JoinDotted joins non-empty name parts with the canonical "." separator.
// Every qualified-name construction in the extractors and drift rules goes
// through this helper so identities never diverge between components.
func JoinDotted(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ".")
}
