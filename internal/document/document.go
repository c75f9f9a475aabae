// Package document reads and writes the structured metadata document (meta.xml) of a process.
//
// Only the logical structure tree is modelled. Everything else in the file, the physical
// structure, persons, namespaces and unknown attributes included, is kept as it was read
// and written back untouched.
package document

import (
	"errors"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// ErrEmptyAnchor is returned when an anchor structure has no child to descend to
var ErrEmptyAnchor = errors.New("anchor structure has no children")

// Fileformat is the root of a metadata document
type Fileformat struct {
	Logical *DocStruct

	doc *etree.Document
}

// DocStruct is one node of the logical structure
type DocStruct struct {
	Type     string
	Anchor   bool
	Metadata []*Metadata
	Children []*DocStruct

	element *etree.Element
	// bound are the metadata and docstruct elements the fields were read from
	bound []*etree.Element
}

// Metadata is a single typed value of a structure
type Metadata struct {
	Type  string
	Value string

	element *etree.Element
}

// Parse reads a document. The logical structure is the first docstruct below the first logical element.
func Parse(r io.Reader) (*Fileformat, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("document has no root element")
	}

	ff := &Fileformat{doc: doc}
	if logical := findElement(root, "logical"); logical != nil {
		if top := logical.SelectElement("docstruct"); top != nil {
			ff.Logical = bindDocStruct(top)
		}
	}
	return ff, nil
}

// WriteTo writes the document with the current state of the logical structure
func (f *Fileformat) WriteTo(w io.Writer) (int64, error) {
	fresh := f.doc == nil
	if fresh {
		f.doc = etree.NewDocument()
		f.doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		f.doc.CreateElement("mets").CreateElement("logical")
	}
	if f.Logical != nil {
		if f.Logical.element == nil {
			logical := findElement(f.doc.Root(), "logical")
			if logical == nil {
				logical = f.doc.Root().CreateElement("logical")
			}
			f.Logical.element = logical.CreateElement("docstruct")
		}
		f.Logical.sync()
	}
	if fresh {
		f.doc.Indent(2)
	}
	return f.doc.WriteTo(w)
}

// TopStruct returns the structure that carries the metadata of the work.
// For an anchor (multi volume container) that is its first child.
func (f *Fileformat) TopStruct() (*DocStruct, error) {
	if f.Logical == nil {
		return nil, errors.New("document has no logical structure")
	}
	doc := f.Logical
	if doc.Anchor {
		if len(doc.Children) == 0 {
			return nil, ErrEmptyAnchor
		}
		doc = doc.Children[0]
	}
	return doc, nil
}

// AllMetadataByType returns every metadata entry of the given type
func (d *DocStruct) AllMetadataByType(t string) []*Metadata {
	var found []*Metadata
	for _, m := range d.Metadata {
		if m.Type == t {
			found = append(found, m)
		}
	}
	return found
}

// RemoveMetadata removes the entry, reporting whether it was present
func (d *DocStruct) RemoveMetadata(md *Metadata) bool {
	for i, m := range d.Metadata {
		if m == md {
			d.Metadata = append(d.Metadata[:i], d.Metadata[i+1:]...)
			return true
		}
	}
	return false
}

func bindDocStruct(e *etree.Element) *DocStruct {
	d := &DocStruct{
		Type:    e.SelectAttrValue("type", ""),
		Anchor:  e.SelectAttrValue("anchor", "") == "true",
		element: e,
	}
	for _, child := range e.ChildElements() {
		switch child.Tag {
		case "metadata":
			d.Metadata = append(d.Metadata, &Metadata{
				Type:    child.SelectAttrValue("type", ""),
				Value:   child.Text(),
				element: child,
			})
		case "docstruct":
			d.Children = append(d.Children, bindDocStruct(child))
		default:
			continue
		}
		d.bound = append(d.bound, child)
	}
	return d
}

// sync writes the fields back into the element tree. Elements of removed entries are
// dropped, new entries are appended, everything else is left alone.
func (d *DocStruct) sync() {
	e := d.element
	setAttr(e, "type", d.Type)
	if d.Anchor {
		setAttr(e, "anchor", "true")
	} else {
		e.RemoveAttr("anchor")
	}

	keep := make(map[*etree.Element]bool)
	for _, m := range d.Metadata {
		if m.element == nil {
			m.element = newChild(e, "metadata")
		}
		keep[m.element] = true
		setAttr(m.element, "type", m.Type)
		if m.element.Text() != m.Value {
			m.element.SetText(m.Value)
		}
	}
	for _, c := range d.Children {
		if c.element == nil {
			c.element = newChild(e, "docstruct")
		}
		keep[c.element] = true
		c.sync()
	}

	var bound []*etree.Element
	for _, b := range d.bound {
		if keep[b] {
			bound = append(bound, b)
			continue
		}
		removeWithIndent(e, b)
	}
	for el := range keep {
		if !contains(bound, el) {
			bound = append(bound, el)
		}
	}
	d.bound = bound
}

// newChild creates an element with the namespace prefix of its parent
func newChild(parent *etree.Element, tag string) *etree.Element {
	if parent.Space != "" {
		tag = parent.Space + ":" + tag
	}
	return parent.CreateElement(tag)
}

func setAttr(e *etree.Element, key, value string) {
	if a := e.SelectAttr(key); a == nil || a.Value != value {
		e.CreateAttr(key, value)
	}
}

// removeWithIndent drops the element and the whitespace in front of it
func removeWithIndent(parent, child *etree.Element) {
	var previous etree.Token
	for _, tok := range parent.Child {
		if tok == etree.Token(child) {
			break
		}
		previous = tok
	}
	if cd, ok := previous.(*etree.CharData); ok && strings.TrimSpace(cd.Data) == "" {
		parent.RemoveChild(cd)
	}
	parent.RemoveChild(child)
}

// findElement searches depth first for the first element with the local name tag
func findElement(e *etree.Element, tag string) *etree.Element {
	if e.Tag == tag {
		return e
	}
	for _, child := range e.ChildElements() {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func contains(elements []*etree.Element, e *etree.Element) bool {
	for _, candidate := range elements {
		if candidate == e {
			return true
		}
	}
	return false
}
