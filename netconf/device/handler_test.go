package device

import (
	"sync"
	"testing"

	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/ops"
	"github.com/damianoneill/ncdevice/netconf/ops/thirdparty/iosxr"
	"github.com/pkg/errors"

	assert "github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, p Params) Handler {
	h, err := New(p)
	assert.NoError(t, err, "Failed to create handler %s", p.Name)
	return h
}

func TestNewSelectsHandler(t *testing.T) {
	assert.Equal(t, []string{DefaultName, IOSXRName, JunosName, NexusName}, Names())

	for _, name := range Names() {
		h := newHandler(t, Params{Name: name})
		assert.Equal(t, name, h.Name())
	}

	h := newHandler(t, Params{Name: " IOSXR "})
	assert.Equal(t, IOSXRName, h.Name(), "Selection should ignore case")
	assert.IsType(t, &IOSXR{}, h)
}

func TestNewFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"no name", Params{}},
		{"unknown device", Params{Name: "acme"}},
		{"unknown iosxr profile", Params{Name: IOSXRName, Profile: "huge"}},
		{"profile on default", Params{Name: DefaultName, Profile: IOSXRMinimal}},
		{"profile on junos", Params{Name: JunosName, Profile: "x"}},
		{"empty namespace uri", Params{Name: DefaultName, Namespaces: map[string]string{"x": ""}}},
		{"default prefix", Params{Name: NexusName, Namespaces: map[string]string{"": "http://example.com"}}},
		{"reserved prefix", Params{Name: JunosName, Namespaces: map[string]string{"xmlns": "http://example.com"}}},
		{"invalid prefix", Params{Name: IOSXRName, Namespaces: map[string]string{"a:b": "http://example.com"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := New(tc.p)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrConfiguration), "Unexpected error %v", err)
			assert.Nil(t, h)
		})
	}
}

func TestCapabilitiesExtendDefaults(t *testing.T) {
	def := newHandler(t, Params{Name: DefaultName}).Capabilities()
	assert.Equal(t, common.DefaultCapabilities, def)

	for _, name := range Names() {
		caps := newHandler(t, Params{Name: name}).Capabilities()
		assert.Equal(t, def, caps[:len(def)], "%s should preserve the default capabilities, in order", name)
		assert.Equal(t, len(caps), len(unique(caps)), "%s should not duplicate capabilities", name)
	}

	caps := newHandler(t, Params{Name: IOSXRName}).Capabilities()
	assert.Len(t, caps, len(def)+1)
	assert.Equal(t, common.CapBase11, caps[len(caps)-1])
}

func TestVendorCapabilitiesSkipDuplicates(t *testing.T) {
	d, err := NewDefault(Params{})
	assert.NoError(t, err)

	caps := d.capabilities(common.CapCandidate, common.CapBase11, common.CapBase11)
	assert.Len(t, caps, len(common.DefaultCapabilities)+1)
	assert.Equal(t, common.CapBase11, caps[len(caps)-1])
}

func TestCapabilitiesAreCopies(t *testing.T) {
	h := newHandler(t, Params{Name: IOSXRName})
	caps := h.Capabilities()
	caps[0] = "changed"
	assert.Equal(t, common.CapBase10, h.Capabilities()[0])
	assert.Equal(t, common.CapBase10, common.DefaultCapabilities[0])
}

func TestNamespaceContext(t *testing.T) {
	for _, name := range Names() {
		ns := newHandler(t, Params{Name: name}).NamespaceContext()
		assert.Equal(t, common.NetconfNS, ns.Base(), "%s should hold the base namespace", name)
	}

	ns := newHandler(t, Params{Name: DefaultName}).NamespaceContext()
	assert.Equal(t, common.NamespaceMap{"": common.NetconfNS}, ns)

	ns = newHandler(t, Params{Name: IOSXRName}).NamespaceContext()
	assert.Equal(t, common.NamespaceMap{"": common.NetconfNS, "if": iosxr.IfmgrCfgNS}, ns)

	ns = newHandler(t, Params{Name: IOSXRName, Profile: IOSXRExtended}).NamespaceContext()
	assert.Equal(t, common.NetconfNS, ns.Base())
	assert.Greater(t, len(ns), 10, "Extended profile should define the larger namespace table")
	uri, ok := ns.Lookup("ifmgr-cfg")
	assert.True(t, ok)
	assert.Equal(t, iosxr.IfmgrCfgNS, uri)

	ns = newHandler(t, Params{Name: DefaultName, Namespaces: map[string]string{"ex": "http://example.com/ex"}}).NamespaceContext()
	assert.Equal(t, common.NamespaceMap{"": common.NetconfNS, "ex": "http://example.com/ex"}, ns)
}

func TestSerializationOptionsUseNamespaceContext(t *testing.T) {
	for _, name := range Names() {
		h := newHandler(t, Params{Name: name})
		assert.Equal(t, h.NamespaceContext(), h.SerializationOptions().Namespaces)
	}
}

func TestNamespaceContextIsCopy(t *testing.T) {
	h := newHandler(t, Params{Name: IOSXRName})
	ns := h.NamespaceContext()
	ns[""] = "http://example.com/other"
	delete(ns, "if")
	assert.Equal(t, common.NamespaceMap{"": common.NetconfNS, "if": iosxr.IfmgrCfgNS}, h.NamespaceContext())
}

func TestQualifyCheck(t *testing.T) {
	assert.True(t, newHandler(t, Params{Name: DefaultName}).QualifyCheck())
	assert.True(t, newHandler(t, Params{Name: JunosName}).QualifyCheck())
	assert.False(t, newHandler(t, Params{Name: IOSXRName}).QualifyCheck())
	assert.False(t, newHandler(t, Params{Name: IOSXRName, Profile: IOSXRExtended}).QualifyCheck())
	assert.False(t, newHandler(t, Params{Name: NexusName}).QualifyCheck())
}

func TestEffectiveRegistry(t *testing.T) {
	def, err := ops.EffectiveRegistry(newHandler(t, Params{Name: DefaultName}))
	assert.NoError(t, err)
	assert.Equal(t, ops.BaseRegistry().Names(), def.Names())
	_, err = def.Resolve(iosxr.OpGetConfigConfiguration)
	assert.True(t, errors.Is(err, common.ErrUnsupportedOperation))

	xr, err := ops.EffectiveRegistry(newHandler(t, Params{Name: IOSXRName}))
	assert.NoError(t, err)
	f, err := xr.Resolve(iosxr.OpGetConfigConfiguration)
	assert.NoError(t, err)
	assert.NotNil(t, f)
	assert.Equal(t, def.Len()+1, xr.Len())

	ext, err := ops.EffectiveRegistry(newHandler(t, Params{Name: IOSXRName, Profile: IOSXRExtended}))
	assert.NoError(t, err)
	_, err = ext.Resolve(iosxr.OpGetConfigConfiguration)
	assert.True(t, errors.Is(err, common.ErrUnsupportedOperation), "Extended profile defines no additional operation")

	for _, name := range []string{JunosName, NexusName} {
		r, err := ops.EffectiveRegistry(newHandler(t, Params{Name: name}))
		assert.NoError(t, err)
		assert.Greater(t, r.Len(), def.Len(), "%s should add operations", name)
	}
}

func TestAdditionalOperationsAreCopies(t *testing.T) {
	h := newHandler(t, Params{Name: IOSXRName})
	extra := h.AdditionalOperations()
	delete(extra, iosxr.OpGetConfigConfiguration)
	assert.Contains(t, h.AdditionalOperations(), iosxr.OpGetConfigConfiguration)

	assert.Empty(t, newHandler(t, Params{Name: DefaultName}).AdditionalOperations())
}

func TestConcurrentQueries(t *testing.T) {
	h := newHandler(t, Params{Name: IOSXRName})
	want := h.Capabilities()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, want, h.Capabilities())
				assert.Equal(t, common.NetconfNS, h.NamespaceContext().Base())
				assert.Len(t, h.AdditionalOperations(), 1)
				assert.False(t, h.QualifyCheck())
			}
		}()
	}
	wg.Wait()
}

func unique(s []string) map[string]bool {
	m := map[string]bool{}
	for _, v := range s {
		m[v] = true
	}
	return m
}
