package scriptgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showtime/internal/domain"
)

func TestCannedGatewayUsesEveryCharacter(t *testing.T) {
	input := NewGenerateInput(&domain.Premise{
		Characters:   []string{"Chef", "Ghost", "Astronaut"},
		Setting:      "a laundromat",
		Circumstance: "a power outage",
	}, false, domain.ModeEnsemble, nil)

	script, err := NewCannedGateway().Generate(context.Background(), input)
	require.NoError(t, err)
	require.NoError(t, script.Validate())

	speakers := map[string]bool{}
	for _, l := range script.Lines {
		speakers[l.Speaker] = true
	}
	assert.Len(t, speakers, 3)
	assert.Contains(t, script.Title, "a laundromat")
}

func TestCannedGatewaySequel(t *testing.T) {
	premise := &domain.Premise{Characters: []string{"Chef"}, Setting: "s", Circumstance: "c"}
	first, err := NewCannedGateway().Generate(context.Background(), NewGenerateInput(premise, false, domain.ModeSolo, nil))
	require.NoError(t, err)

	sequel, err := NewCannedGateway().Generate(context.Background(), NewGenerateInput(premise, false, domain.ModeSolo, first))
	require.NoError(t, err)
	assert.Equal(t, first.Title+": The Sequel", sequel.Title)
}

func TestCannedGatewayRejectsNoCharacters(t *testing.T) {
	_, err := NewCannedGateway().Generate(context.Background(), &GenerateInput{})
	assert.ErrorIs(t, err, domain.ErrMalformedScript)
}
