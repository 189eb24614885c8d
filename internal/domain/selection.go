package domain

import "strings"

// CardSelection is the three cards a player submits during SELECTION
type CardSelection struct {
	Character    string `json:"character"`
	Setting      string `json:"setting"`
	Circumstance string `json:"circumstance"`
}

// Normalize trims every card
func (c CardSelection) Normalize() CardSelection {
	return CardSelection{
		Character:    strings.TrimSpace(c.Character),
		Setting:      strings.TrimSpace(c.Setting),
		Circumstance: strings.TrimSpace(c.Circumstance),
	}
}

// Validate checks that all three cards are present
func (c CardSelection) Validate() error {
	if c.Character == "" || c.Setting == "" || c.Circumstance == "" {
		return ErrIncompleteSelection
	}
	return nil
}

// Premise is what the writer is asked to turn into a script
type Premise struct {
	Characters   []string `json:"characters"`
	Setting      string   `json:"setting"`
	Circumstance string   `json:"circumstance"`
}

// Random is the source of randomness used for picks and tie-breaks
type Random interface {
	Intn(n int) int
}
