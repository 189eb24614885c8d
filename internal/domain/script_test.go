package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMood(t *testing.T) {
	tests := []struct {
		in   string
		want Mood
	}{
		{"angry", MoodAngry},
		{" HAPPY ", MoodHappy},
		{"Confused", MoodConfused},
		{"whispering", MoodWhispering},
		{"neutral", MoodNeutral},
		{"ecstatic", MoodNeutral},
		{"", MoodNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMood(tt.in))
		})
	}
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, ScriptLine{Text: "hello"}.ReadingTime())
	assert.Equal(t, 3*time.Second, ScriptLine{Text: "one two  three\tfour five\nsix"}.ReadingTime())
	assert.Equal(t, time.Duration(0), ScriptLine{Text: "   "}.ReadingTime())
}

func TestScriptValidate(t *testing.T) {
	var nilScript *Script
	assert.ErrorIs(t, nilScript.Validate(), ErrMalformedScript)
	assert.ErrorIs(t, (&Script{Lines: []ScriptLine{{Speaker: "a", Text: "b"}}}).Validate(), ErrMalformedScript)
	assert.ErrorIs(t, (&Script{Title: "t"}).Validate(), ErrEmptyScript)
	assert.ErrorIs(t, (&Script{Title: "t", Lines: []ScriptLine{{Speaker: "", Text: "b"}}}).Validate(), ErrMalformedScript)
	assert.NoError(t, (&Script{Title: "t", Lines: []ScriptLine{{Speaker: "a", Text: "b"}}}).Validate())
}

func TestStateTransitions(t *testing.T) {
	assert.True(t, StateLobby.CanTransitionTo(StateSelection))
	assert.True(t, StateLoading.CanTransitionTo(StateSelection))
	assert.True(t, StateResults.CanTransitionTo(StateLoading))
	assert.False(t, StateLobby.CanTransitionTo(StatePerforming))
	assert.False(t, StateVoting.CanTransitionTo(StateLoading))
}
