package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkDeliversEmittedEvents(t *testing.T) {
	s := NewSink(4)
	s.Emit(LogEvent{Level: LevelInfo, Text: "connected"})
	s.Emit(CharacterStateChanged{Field: "hp"})

	ev := <-s.Events()
	log, ok := ev.(LogEvent)
	require.True(t, ok)
	assert.Equal(t, "connected", log.Text)

	ev = <-s.Events()
	changed, ok := ev.(CharacterStateChanged)
	require.True(t, ok)
	assert.Equal(t, "hp", changed.Field)
}

func TestSinkDropsWhenFull(t *testing.T) {
	s := NewSink(1)
	s.Emit(LogEvent{Text: "first"})
	s.Emit(LogEvent{Text: "second"}) // channel full, must be dropped

	assert.Equal(t, 1, s.Dropped())
	ev := <-s.Events()
	assert.Equal(t, LogEvent{Text: "first"}, ev)
}
