// Package schema implements TableSchema: an ordered attribute
// name-to-index mapping plus the optional primary-key attribute list
// that a Table and every operator's output are anchored to.
package schema

import (
	"fmt"
	"strings"

	"github.com/jhh-labs/relq/pkg/dberrors"
)

// Schema is an ordered set of attribute names, each with a stable
// 0-based positional index in insertion order, plus the (possibly
// empty) list of attribute names forming the primary key.
type Schema struct {
	names   []string
	indices map[string]int
	key     []string
}

// New constructs an empty Schema.
func New() *Schema {
	return &Schema{indices: map[string]int{}}
}

// Combine constructs the union schema used as a NaturalJoin's output
// schema: every attribute of s1 in order, then every attribute of s2
// that s1 does not already contain, in s2's order.
func Combine(s1, s2 *Schema) *Schema {
	out := New()
	for _, name := range s1.names {
		out.addAttribute(name) //nolint:errcheck // s1 already has unique names
	}
	for _, name := range s2.names {
		if _, ok := out.indices[name]; !ok {
			out.addAttribute(name) //nolint:errcheck // s2 already has unique names
		}
	}
	return out
}

func (s *Schema) addAttribute(name string) error {
	if _, exists := s.indices[name]; exists {
		return dberrors.Newf(dberrors.DuplicateAttribute, "attribute %q already exists", name)
	}
	s.indices[name] = len(s.names)
	s.names = append(s.names, name)
	return nil
}

// AddAttribute appends an attribute to the schema, failing with
// DuplicateAttribute if the name is already present.
func (s *Schema) AddAttribute(name string) error {
	return s.addAttribute(name)
}

// SetKey sets the primary-key attribute list. Every name must already
// name an attribute of s.
func (s *Schema) SetKey(names ...string) error {
	for _, n := range names {
		if _, ok := s.indices[n]; !ok {
			return dberrors.Newf(dberrors.UnboundVariable, "key attribute %q is not defined in this schema", n)
		}
	}
	s.key = append([]string(nil), names...)
	return nil
}

// Size returns the number of attributes in s.
func (s *Schema) Size() int { return len(s.names) }

// AttributeIndex returns the index of name in s, and false if s has no
// such attribute.
func (s *Schema) AttributeIndex(name string) (int, bool) {
	i, ok := s.indices[name]
	return i, ok
}

// AttributeNames returns the attribute names in schema order. The
// returned slice must not be mutated by callers.
func (s *Schema) AttributeNames() []string { return s.names }

// Key returns the primary-key attribute names, or nil if none was set.
func (s *Schema) Key() []string { return s.key }

// HasAttribute reports whether name is defined in s.
func (s *Schema) HasAttribute(name string) bool {
	_, ok := s.indices[name]
	return ok
}

// CommonAttributeNames returns the attribute names present in both s
// and other, in s's order.
func (s *Schema) CommonAttributeNames(other *Schema) []string {
	var common []string
	for _, name := range s.names {
		if other.HasAttribute(name) {
			common = append(common, name)
		}
	}
	return common
}

// String renders the schema the way the project has always rendered
// it: attribute-to-index map plus key list.
func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString("{attributes=[")
	for i, n := range s.names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%d", n, s.indices[n])
	}
	b.WriteString("], key=")
	b.WriteString(fmt.Sprint(s.key))
	b.WriteString("}")
	return b.String()
}
