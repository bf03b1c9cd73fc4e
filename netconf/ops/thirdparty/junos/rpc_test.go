package junos_test

import (
	"testing"

	"github.com/damianoneill/ncdevice/netconf/common"
	"github.com/damianoneill/ncdevice/netconf/device"
	"github.com/damianoneill/ncdevice/netconf/ops"
	"github.com/damianoneill/ncdevice/netconf/ops/thirdparty/junos"
	"github.com/pkg/errors"

	assert "github.com/stretchr/testify/require"
)

const junosNS = `xmlns="urn:ietf:params:xml:ns:netconf:base:1.0" xmlns:junos="http://xml.juniper.net/junos/*/junos"`

func newRPC(t *testing.T) *ops.RPC {
	h, err := device.New(device.Params{Name: device.JunosName})
	assert.NoError(t, err)
	return ops.NewRPC(nil, h)
}

func build(t *testing.T, f ops.Factory, args ops.Args) (string, error) {
	req, err := f(newRPC(t)).Build(args)
	if err != nil {
		assert.Nil(t, req, "No partial document expected")
		return "", err
	}
	body, err := ops.Serialize(req)
	assert.NoError(t, err)
	return body, nil
}

func TestCommand(t *testing.T) {
	body, err := build(t, junos.NewCommand, ops.Args{junos.ArgCommand: "show version"})
	assert.NoError(t, err)
	assert.Equal(t, `<command `+junosNS+` format="xml">show version</command>`, body)

	body, err = build(t, junos.NewCommand, ops.Args{junos.ArgCommand: "show interfaces terse", junos.ArgFormat: "text"})
	assert.NoError(t, err)
	assert.Equal(t, `<command `+junosNS+` format="text">show interfaces terse</command>`, body)

	_, err = build(t, junos.NewCommand, ops.Args{})
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))

	_, err = build(t, junos.NewCommand, ops.Args{junos.ArgCommand: "show version", junos.ArgFormat: "yaml"})
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
}

func TestGetConfiguration(t *testing.T) {
	body, err := build(t, junos.NewGetConfiguration, nil)
	assert.NoError(t, err)
	assert.Equal(t, `<get-configuration `+junosNS+` format="xml"/>`, body)

	body, err = build(t, junos.NewGetConfiguration, ops.Args{
		junos.ArgFormat:          "text",
		junos.ArgCompareRollback: 1,
		junos.ArgFilter:          `<configuration><system/></configuration>`,
	})
	assert.NoError(t, err)
	assert.Equal(t, `<get-configuration `+junosNS+` format="text" compare="rollback" rollback="1">`+
		`<configuration><system/></configuration></get-configuration>`, body)

	_, err = build(t, junos.NewGetConfiguration, ops.Args{junos.ArgCompareRollback: 50})
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))

	_, err = build(t, junos.NewGetConfiguration, ops.Args{junos.ArgFilter: `<junosx:configuration/>`})
	assert.True(t, errors.Is(err, common.ErrInvalidArgument), "Junos requests should be qualified")

	_, err = build(t, junos.NewGetConfiguration, ops.Args{junos.ArgFilter: `<junos:configuration/>`})
	assert.NoError(t, err)
}
