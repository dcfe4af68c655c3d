package fsm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMachineStartsInInitial(t *testing.T) {
	m := New()
	assert.Equal(t, Initial, m.Phase())
}

func TestCommandsGatedByPhase(t *testing.T) {
	m := New()

	err := m.Check(CmdMove)
	require.Error(t, err)
	var wrongPhase *ErrWrongPhase
	require.True(t, errors.As(err, &wrongPhase))
	assert.Equal(t, CmdMove, wrongPhase.Command)
	assert.Equal(t, Initial, wrongPhase.Phase)

	require.NoError(t, m.Check(CmdConnect))
}

func TestInGameUnlocksWorldCommands(t *testing.T) {
	m := New()
	m.Transition(InGame)

	assert.NoError(t, m.Check(CmdMove))
	assert.NoError(t, m.Check(CmdWalk))
	assert.NoError(t, m.Check(CmdPickup))
	assert.Error(t, m.Check(CmdConnectGameServer))
}

func TestReconnectAllowedFromDisconnected(t *testing.T) {
	m := New()
	m.Transition(Disconnected)
	assert.NoError(t, m.Check(CmdConnect))
}

func TestPhaseStringsAreHumanReadable(t *testing.T) {
	assert.Equal(t, "IN_GAME", InGame.String())
	assert.Equal(t, "DISCONNECTED", Disconnected.String())
}
