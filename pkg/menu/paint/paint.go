// Package paint defines the render target the menu writes its state to and a
// tag tree implementation of it that marshals to JSON for the rendering client.
package paint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnbalanced is returned by Builder.Close when tags were not closed in order.
var ErrUnbalanced = errors.New("unbalanced tags")

// Target receives a nested attribute/tag structure.
type Target interface {
	// StartTag opens a child tag under the current one.
	StartTag(name string)

	// EndTag closes the current tag. The name must match the open tag.
	EndTag(name string)

	// AddAttribute sets an attribute on the current tag.
	AddAttribute(name string, value any)
}

// Attr is a single named attribute value.
type Attr struct {
	Name  string
	Value any
}

// Tag is a node of the rendered tree. Attributes keep the order they were added in.
type Tag struct {
	Name     string
	Attrs    []Attr
	Children []*Tag
}

// Attr returns the value of the named attribute.
func (t *Tag) Attr(name string) (any, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Child returns the first direct child with the given tag name.
func (t *Tag) Child(name string) *Tag {
	for _, c := range t.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// MarshalJSON encodes the tag as {"tag": name, "attrs": {...}, "children": [...]}.
func (t *Tag) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	name, err := json.Marshal(t.Name)
	if err != nil {
		return nil, err
	}

	buf.WriteString(`{"tag":`)
	buf.Write(name)

	if len(t.Attrs) > 0 {
		buf.WriteString(`,"attrs":{`)
		for i, a := range t.Attrs {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(a.Name)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(a.Value)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}

	if len(t.Children) > 0 {
		children, err := json.Marshal(t.Children)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"children":`)
		buf.Write(children)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Builder is a Target that collects everything written to it into a Tag tree.
type Builder struct {
	root  *Tag
	stack []*Tag
	err   error
}

// NewBuilder returns a Builder whose root tag has the given name.
func NewBuilder(root string) *Builder {
	r := &Tag{Name: root}
	return &Builder{root: r, stack: []*Tag{r}}
}

// StartTag implements Target.
func (b *Builder) StartTag(name string) {
	t := &Tag{Name: name}
	cur := b.current()
	cur.Children = append(cur.Children, t)
	b.stack = append(b.stack, t)
}

// EndTag implements Target.
func (b *Builder) EndTag(name string) {
	if len(b.stack) < 2 {
		b.fail(fmt.Errorf("%w: end %q without start", ErrUnbalanced, name))
		return
	}
	top := b.stack[len(b.stack)-1]
	if top.Name != name {
		b.fail(fmt.Errorf("%w: end %q while %q is open", ErrUnbalanced, name, top.Name))
		return
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// AddAttribute implements Target. Setting an existing name replaces its value.
func (b *Builder) AddAttribute(name string, value any) {
	cur := b.current()
	for i := range cur.Attrs {
		if cur.Attrs[i].Name == name {
			cur.Attrs[i].Value = value
			return
		}
	}
	cur.Attrs = append(cur.Attrs, Attr{Name: name, Value: value})
}

// Close returns the collected tree, or an error if tags were left open or
// closed out of order.
func (b *Builder) Close() (*Tag, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 1 {
		return nil, fmt.Errorf("%w: %q still open", ErrUnbalanced, b.current().Name)
	}
	return b.root, nil
}

func (b *Builder) current() *Tag {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
