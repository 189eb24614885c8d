// Package scriptgen is the boundary to the external writer that turns a
// premise into a performable script.
package scriptgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"showtime/internal/domain"
)

// ErrWriterUnavailable is returned when the writer could not be reached or
// answered with a failure status.
var ErrWriterUnavailable = errors.New("script writer unavailable")

//go:generate mockgen -package=mocks -destination=mocks/mock_gateway.go showtime/internal/scriptgen Gateway

// Gateway produces a validated script. Implementations must never return a
// partial script: any structural problem is reported as an error wrapping
// domain.ErrMalformedScript or domain.ErrEmptyScript.
type Gateway interface {
	Generate(ctx context.Context, input *GenerateInput) (*domain.Script, error)
}

// GenerateInput is everything the writer gets to work with
type GenerateInput struct {
	Characters     []string        `json:"characters"`
	Setting        string          `json:"setting"`
	Circumstance   string          `json:"circumstance"`
	IsMature       bool            `json:"isMature"`
	Mode           domain.GameMode `json:"mode"`
	PreviousScript *domain.Script  `json:"previousScript,omitempty"`
}

// NewGenerateInput builds the writer input for a premise
func NewGenerateInput(premise *domain.Premise, isMature bool, mode domain.GameMode, previous *domain.Script) *GenerateInput {
	characters := make([]string, len(premise.Characters))
	copy(characters, premise.Characters)
	return &GenerateInput{
		Characters:     characters,
		Setting:        premise.Setting,
		Circumstance:   premise.Circumstance,
		IsMature:       isMature,
		Mode:           mode,
		PreviousScript: previous,
	}
}

// IsSequel reports whether the writer should continue from a previous script
func (in *GenerateInput) IsSequel() bool {
	return in.PreviousScript != nil
}

// rawScript is the loosely-typed shape the writer answers with
type rawScript struct {
	Title    string    `json:"title"`
	Synopsis string    `json:"synopsis"`
	Lines    []rawLine `json:"lines"`
}

type rawLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Mood    string `json:"mood"`
}

// toScript normalizes writer output and rejects anything incomplete
func (r *rawScript) toScript() (*domain.Script, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: empty response", domain.ErrMalformedScript)
	}

	script := &domain.Script{
		Title:    strings.TrimSpace(r.Title),
		Synopsis: strings.TrimSpace(r.Synopsis),
		Lines:    make([]domain.ScriptLine, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		script.Lines = append(script.Lines, domain.ScriptLine{
			Speaker: strings.TrimSpace(l.Speaker),
			Text:    strings.TrimSpace(l.Text),
			Mood:    domain.ParseMood(l.Mood),
		})
	}

	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("validating script: %w", err)
	}
	return script, nil
}
