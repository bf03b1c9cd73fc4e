package ops

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"

	"github.com/damianoneill/ncdevice/netconf/ops/mocks"

	assert "github.com/stretchr/testify/require"
)

const baseNS = `xmlns="urn:ietf:params:xml:ns:netconf:base:1.0"`

type testDialect struct {
	ns      common.NamespaceMap
	qualify bool
}

func (d testDialect) SerializationOptions() common.SerializationOptions {
	return common.SerializationOptions{Namespaces: d.ns}
}

func (d testDialect) QualifyCheck() bool {
	return d.qualify
}

var strictDialect = testDialect{ns: common.NewNamespaceMap(common.NetconfNS, nil), qualify: true}

func newTestRPC(t *testing.T, d Dialect, caps []string) (*RPC, *mocks.MockExecutor) {
	mockCtrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(mockCtrl)
	exec.EXPECT().ServerCapabilities().Return(caps).AnyTimes()
	return NewRPC(exec, d), exec
}

func TestRootDeclaresNamespaces(t *testing.T) {
	b := NewBuilder(common.SerializationOptions{Namespaces: common.NewNamespaceMap(common.NetconfNS, map[string]string{
		"if": "http://example.com/if",
		"a":  "http://example.com/a",
	})}, true)

	body, err := Serialize(b.Root("get"))
	assert.NoError(t, err)
	assert.Equal(t, `<get `+baseNS+` xmlns:a="http://example.com/a" xmlns:if="http://example.com/if"/>`, body)
}

func TestBuilderNamespacesAreCopied(t *testing.T) {
	ns := common.NewNamespaceMap(common.NetconfNS, nil)
	b := NewBuilder(common.SerializationOptions{Namespaces: ns}, true)
	ns["x"] = "http://example.com/x"

	_, ok := b.Namespaces().Lookup("x")
	assert.False(t, ok, "Builder should not see later changes to the supplied map")

	b.Namespaces()["y"] = "http://example.com/y"
	_, ok = b.Namespaces().Lookup("y")
	assert.False(t, ok, "Builder map should not be modifiable by callers")
}

func TestFinishChecksQualification(t *testing.T) {
	ns := common.NewNamespaceMap(common.NetconfNS, map[string]string{"if": "http://example.com/if"})

	strict := NewBuilder(common.SerializationOptions{Namespaces: ns}, true)
	root := strict.Root("get")
	root.CreateElement("filter").CreateElement("if:interfaces")
	req, err := strict.Finish(root)
	assert.NoError(t, err, "Declared prefix should be accepted")
	assert.Equal(t, root, req)

	root = strict.Root("get")
	root.CreateElement("filter").CreateElement("xx:interfaces")
	req, err = strict.Finish(root)
	assert.Error(t, err, "Undeclared prefix should be rejected")
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
	assert.Nil(t, req, "No partial document expected")

	lenient := NewBuilder(common.SerializationOptions{Namespaces: ns}, false)
	root = lenient.Root("get")
	root.CreateElement("filter").CreateElement("xx:interfaces")
	req, err = lenient.Finish(root)
	assert.NoError(t, err, "Qualification should not be checked")
	assert.NotNil(t, req)
}

func TestSubtree(t *testing.T) {
	elements, err := Subtree(`<a><b/></a><c>text</c>`)
	assert.NoError(t, err)
	assert.Len(t, elements, 2)
	assert.Equal(t, "a", elements[0].Tag)
	assert.Equal(t, "c", elements[1].Tag)
	assert.Nil(t, elements[0].Parent(), "Elements should be detached")

	parent := etree.NewElement("filter")
	for _, e := range elements {
		parent.AddChild(e)
	}
	body, err := Serialize(parent)
	assert.NoError(t, err)
	assert.Equal(t, `<filter><a><b/></a><c>text</c></filter>`, body)

	_, err = Subtree(`<a>`)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument), "Malformed fragment should be rejected")

	_, err = Subtree(`just text`)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument), "Fragment without elements should be rejected")
}
