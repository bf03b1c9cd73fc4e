package ops

import (
	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/common"
)

// Builder constructs request elements according to a dialect's serialization options.
// A Builder is immutable and may be shared by concurrent requests.
type Builder struct {
	namespaces common.NamespaceMap
	qualify    bool
}

// NewBuilder returns a Builder declaring the namespaces of opts on each request.
// If qualify is set, every prefixed element of a request must resolve to a declared namespace.
func NewBuilder(opts common.SerializationOptions, qualify bool) *Builder {
	return &Builder{namespaces: opts.Namespaces.Copy(), qualify: qualify}
}

// Namespaces delivers a copy of the namespace map used by the builder.
func (b *Builder) Namespaces() common.NamespaceMap {
	return b.namespaces.Copy()
}

// Root creates the outer element of a request, declaring the builder's namespaces on it.
func (b *Builder) Root(tag string) *etree.Element {
	el := etree.NewElement(tag)
	for _, prefix := range b.namespaces.Prefixes() {
		if prefix == common.DefaultPrefix {
			el.CreateAttr("xmlns", b.namespaces[prefix])
		} else {
			el.CreateAttr("xmlns:"+prefix, b.namespaces[prefix])
		}
	}
	return el
}

// Finish completes a request, checking element qualification if the dialect requires it.
func (b *Builder) Finish(root *etree.Element) (*etree.Element, error) {
	if b.qualify {
		if err := checkQualified(root); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func checkQualified(el *etree.Element) error {
	if el.Space != "" && el.NamespaceURI() == "" {
		return common.InvalidArgumentf("element %s uses undeclared prefix %q", el.FullTag(), el.Space)
	}
	for _, child := range el.ChildElements() {
		if err := checkQualified(child); err != nil {
			return err
		}
	}
	return nil
}

// Subtree parses an xml fragment, returning its top level elements.
func Subtree(fragment string) ([]*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString("<fragment>" + fragment + "</fragment>"); err != nil {
		return nil, common.InvalidArgumentf("malformed xml fragment: %v", err)
	}
	elements := doc.Root().ChildElements()
	if len(elements) == 0 {
		return nil, common.InvalidArgumentf("xml fragment holds no elements")
	}
	for _, e := range elements {
		doc.Root().RemoveChild(e)
	}
	return elements, nil
}
