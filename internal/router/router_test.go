package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xulek/muonline-console-client/internal/wire"
)

func TestSplitConsumesSubCodeForRegisteredMainCode(t *testing.T) {
	set := SubCodeSet{0xF3: true}
	sub, body := Split(set, 0xF3, []byte{0x03, 0x01, 0x02})
	assert.Equal(t, byte(0x03), sub)
	assert.Equal(t, []byte{0x01, 0x02}, body)
}

func TestSplitSentinelForUnregisteredMainCode(t *testing.T) {
	// Scenario 2 (spec §8): main=0x21 is NOT in the sub-code set.
	set := GameServerSubCodes
	sub, body := Split(set, 0x21, []byte{0x02, 0x12, 0x34, 0x56, 0x78})
	assert.Equal(t, byte(NoSubCode), sub)
	assert.Equal(t, []byte{0x02, 0x12, 0x34, 0x56, 0x78}, body)

	count := body[0]
	require.Equal(t, byte(2), count)
	ids := []uint16{
		uint16(body[1])<<8 | uint16(body[2]),
		uint16(body[3])<<8 | uint16(body[4]),
	}
	assert.Equal(t, []uint16{0x1234, 0x5678}, ids)
}

func TestRouterDispatchesToRegisteredHandler(t *testing.T) {
	r := New(GameServerSubCodes)
	var gotMain, gotSub byte
	var gotBody []byte

	r.Register(0x12, NoSubCode, func(main, sub byte, body []byte) error {
		gotMain, gotSub, gotBody = main, sub, body
		return nil
	})

	r.Dispatch(wire.Frame{Type: wire.TypeC1, Main: 0x12, Body: []byte{0xAA, 0xBB}})

	assert.Equal(t, byte(0x12), gotMain)
	assert.Equal(t, byte(NoSubCode), gotSub)
	assert.Equal(t, []byte{0xAA, 0xBB}, gotBody)
}

func TestRouterIgnoresUnhandledPackets(t *testing.T) {
	r := New(GameServerSubCodes)
	assert.NotPanics(t, func() {
		r.Dispatch(wire.Frame{Type: wire.TypeC1, Main: 0x99, Body: []byte{0x01}})
	})
}

func TestRouterRecoversFromHandlerPanic(t *testing.T) {
	r := New(GameServerSubCodes)
	r.Register(0x15, NoSubCode, func(main, sub byte, body []byte) error {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		r.Dispatch(wire.Frame{Type: wire.TypeC1, Main: 0x15, Body: []byte{}})
	})
}

func TestRouterRecoversFromHandlerError(t *testing.T) {
	r := New(GameServerSubCodes)
	called := false
	r.Register(0x17, NoSubCode, func(main, sub byte, body []byte) error {
		called = true
		return assert.AnError
	})

	assert.NotPanics(t, func() {
		r.Dispatch(wire.Frame{Type: wire.TypeC1, Main: 0x17, Body: nil})
	})
	assert.True(t, called)
}
