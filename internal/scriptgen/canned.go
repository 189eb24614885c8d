package scriptgen

import (
	"context"
	"fmt"

	"showtime/internal/domain"
)

var cannedBeats = []struct {
	text string
	mood domain.Mood
}{
	{"Well, this is not how I pictured %s.", domain.MoodConfused},
	{"Nobody panic. We have been through worse than %s.", domain.MoodNeutral},
	{"Worse? Name one thing worse than %s!", domain.MoodAngry},
	{"Keep your voice down, someone might hear us talking about %s.", domain.MoodWhispering},
	{"Honestly? I think %s is the best thing that ever happened to us.", domain.MoodHappy},
	{"Then it is settled. We face %s together.", domain.MoodNeutral},
}

// CannedGateway writes a short deterministic script from the premise. It is
// used when no writer endpoint is configured.
type CannedGateway struct{}

// NewCannedGateway creates a new canned writer
func NewCannedGateway() *CannedGateway {
	return &CannedGateway{}
}

// Generate implements Gateway
func (g *CannedGateway) Generate(ctx context.Context, input *GenerateInput) (*domain.Script, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input == nil || len(input.Characters) == 0 {
		return nil, fmt.Errorf("%w: no characters", domain.ErrMalformedScript)
	}

	raw := &rawScript{
		Title:    fmt.Sprintf("%s at %s", input.Circumstance, input.Setting),
		Synopsis: fmt.Sprintf("%d characters deal with %s.", len(input.Characters), input.Circumstance),
	}
	if input.IsSequel() {
		raw.Title = input.PreviousScript.Title + ": The Sequel"
		raw.Synopsis = "It gets worse. " + raw.Synopsis
	}

	subjects := []string{input.Setting, input.Circumstance}
	for i, beat := range cannedBeats {
		raw.Lines = append(raw.Lines, rawLine{
			Speaker: input.Characters[i%len(input.Characters)],
			Text:    fmt.Sprintf(beat.text, subjects[i%len(subjects)]),
			Mood:    string(beat.mood),
		})
	}

	return raw.toScript()
}
