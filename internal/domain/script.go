package domain

import (
	"strings"
	"time"
)

// WordsPerMinute is the reading pace the teleprompter assumes
const WordsPerMinute = 120

// Mood is how a line should be delivered
type Mood string

const (
	MoodAngry      Mood = "angry"
	MoodHappy      Mood = "happy"
	MoodConfused   Mood = "confused"
	MoodWhispering Mood = "whispering"
	MoodNeutral    Mood = "neutral"
)

// ParseMood maps free-form writer output onto the mood set.
// Anything unrecognized falls back to MoodNeutral.
func ParseMood(s string) Mood {
	switch Mood(strings.ToLower(strings.TrimSpace(s))) {
	case MoodAngry:
		return MoodAngry
	case MoodHappy:
		return MoodHappy
	case MoodConfused:
		return MoodConfused
	case MoodWhispering:
		return MoodWhispering
	default:
		return MoodNeutral
	}
}

// ScriptLine is a single line of dialogue
type ScriptLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Mood    Mood   `json:"mood"`
}

// WordCount returns the number of whitespace-separated words in the line
func (l ScriptLine) WordCount() int {
	return len(strings.Fields(l.Text))
}

// ReadingTime is how long the teleprompter holds this line
func (l ScriptLine) ReadingTime() time.Duration {
	return time.Duration(l.WordCount()) * time.Minute / WordsPerMinute
}

// Script is what the writer produces from a premise
type Script struct {
	Title    string       `json:"title"`
	Synopsis string       `json:"synopsis"`
	Lines    []ScriptLine `json:"lines"`
}

// Validate rejects structurally incomplete scripts
func (s *Script) Validate() error {
	if s == nil {
		return ErrMalformedScript
	}
	if strings.TrimSpace(s.Title) == "" {
		return ErrMalformedScript
	}
	if len(s.Lines) == 0 {
		return ErrEmptyScript
	}
	for _, line := range s.Lines {
		if strings.TrimSpace(line.Speaker) == "" || strings.TrimSpace(line.Text) == "" {
			return ErrMalformedScript
		}
	}
	return nil
}

// LastLine returns the index of the final line
func (s *Script) LastLine() int {
	return len(s.Lines) - 1
}
