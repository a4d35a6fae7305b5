package mzml

import (
	"encoding/xml"
	"fmt"

	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/mzerr"
)

// node is one subtree of the document, read by a single recursive
// descent over xml.Decoder.Token() (SPEC_FULL.md §4.3's "push-driven XML
// state machine" — the builder stack is the Go call stack here, one
// frame per nesting level, rather than an explicit slice; each frame is
// still exactly the "container state owns a partial builder, finalizes
// on close-tag" discipline the spec describes, just expressed as
// recursive descent instead of a hand-rolled stack machine). Loaded
// lazily, one element at a time, never the whole document: a random-access
// read of a single <spectrum> loads only that subtree.
type node struct {
	name     string
	attrs    attrMap
	text     string
	children []*node
}

// first returns the first child with the given name, and whether one exists.
func (n *node) first(name string) (*node, bool) {
	for _, c := range n.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// all returns every child with the given name.
func (n *node) all(name string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// decodeNode reads one element (the one named by start) and its entire
// subtree into a node tree, leaving dec positioned just after start's
// matching end tag.
func decodeNode(dec *xml.Decoder, start xml.StartElement) (*node, error) {
	n := &node{name: start.Name.Local, attrs: newAttrMap(start)}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, mzerr.Wrap(mzerr.ErrMalformedXML, n.name, "", dec.InputOffset(), err.Error())
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeNode(dec, t)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)
		case xml.CharData:
			n.text += string(t)
		case xml.EndElement:
			if t.Name.Local != n.name {
				return nil, mzerr.Wrap(mzerr.ErrMalformedXML, n.name, "", dec.InputOffset(), fmt.Sprintf("mismatched end tag %q", t.Name.Local))
			}
			return n, nil
		}
	}
}

// paramsOf collects every direct cvParam/userParam child of n into a
// ParamList, resolving any referenceableParamGroupRef children against
// groups. Unresolved group references are skipped (logged by the caller),
// per SPEC_FULL.md §7's recovery policy for UnknownReference.
func paramsOf(n *node, groups *cv.GroupTable) (cv.ParamList, []string) {
	var list cv.ParamList
	var unresolved []string
	for _, c := range n.children {
		switch c.name {
		case "cvParam", "userParam":
			p, err := paramFromAttrs(c.name, c.attrs)
			if err == nil {
				list = append(list, p)
			}
		case "referenceableParamGroupRef":
			if ref, ok := c.attrs.get("ref"); ok {
				resolved, unres := groups.ResolveAll([]string{ref})
				list = append(list, resolved...)
				unresolved = append(unresolved, unres...)
			}
		}
	}
	return list, unresolved
}
